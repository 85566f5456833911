// Package main: Repository katmanı başlatma.
//
// initRepositories, tüm repository implementasyonlarını oluşturur.
// Hepsi aynı *sql.DB connection pool'unu paylaşır.
package main

import (
	"database/sql"

	"github.com/akinalp/healthy/repository"
)

// Repositories, tüm repository instance'larını tutan container struct.
type Repositories struct {
	User       repository.UserRepository
	Session    repository.SessionRepository
	Friendship repository.FriendshipRepository
	Message    repository.MessageRepository
	ReadState  repository.ReadStateRepository
	Group      repository.GroupRepository
	Post       repository.PostRepository
	Like       repository.LikeRepository
	Comment    repository.CommentRepository
	Progress   repository.ProgressRepository
	CustomMeal repository.CustomMealRepository
}

func initRepositories(conn *sql.DB) *Repositories {
	return &Repositories{
		User:       repository.NewSQLiteUserRepo(conn),
		Session:    repository.NewSQLiteSessionRepo(conn),
		Friendship: repository.NewSQLiteFriendshipRepo(conn),
		Message:    repository.NewSQLiteMessageRepo(conn),
		ReadState:  repository.NewSQLiteReadStateRepo(conn),
		Group:      repository.NewSQLiteGroupRepo(conn),
		Post:       repository.NewSQLitePostRepo(conn),
		Like:       repository.NewSQLiteLikeRepo(conn),
		Comment:    repository.NewSQLiteCommentRepo(conn),
		Progress:   repository.NewSQLiteProgressRepo(conn),
		CustomMeal: repository.NewSQLiteCustomMealRepo(conn),
	}
}

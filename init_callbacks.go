// Package main: WebSocket Hub callback wire-up.
//
// Hub ws paketinde yaşıyor, arkadaşlık ve grup bilgisi ise service/repo
// katmanında. Hub'ın service'lere bağımlı olmaması için callback'ler
// burada bağlanır.
//
// Callback'ler Hub.Run() goroutine'inden ayrı goroutine'de çalışır,
// böylece Hub'ın mutex Lock'u ile BroadcastToUsers'ın RLock'u çakışmaz.
package main

import (
	"context"
	"log"

	"github.com/akinalp/healthy/repository"
	"github.com/akinalp/healthy/services"
	"github.com/akinalp/healthy/ws"
)

// registerHubCallbacks, presence, typing ve ready callback'lerini register eder.
func registerHubCallbacks(
	hub *ws.Hub,
	friendships services.FriendshipService,
	groupRepo repository.GroupRepository,
) {
	// ─── Presence ───
	// Durum değişikliği yalnızca arkadaşlara gider.
	broadcastPresence := func(userID, status string) {
		friendIDs, err := friendships.FriendIDs(context.Background(), userID)
		if err != nil {
			log.Printf("[presence] failed to load friends for user %s: %v", userID, err)
			return
		}
		if len(friendIDs) == 0 {
			return
		}
		hub.BroadcastToUsers(friendIDs, ws.Event{
			Op:   ws.OpPresence,
			Data: ws.PresenceData{UserID: userID, Status: status},
		})
	}

	hub.OnUserFirstConnect(func(userID string) {
		broadcastPresence(userID, "online")
		log.Printf("[presence] user %s is now online", userID)
	})

	hub.OnUserFullyDisconnected(func(userID string) {
		broadcastPresence(userID, "offline")
		log.Printf("[presence] user %s is now offline", userID)
	})

	// ─── Typing ───
	hub.OnTyping(func(userID string, data ws.TypingData) {
		ctx := context.Background()

		switch {
		case data.GroupID != "":
			group, err := groupRepo.GetByID(ctx, data.GroupID)
			if err != nil {
				return
			}
			if !group.HasMember(userID) {
				return
			}
			recipients := make([]string, 0, len(group.Members))
			for _, id := range group.MemberIDs() {
				if id != userID {
					recipients = append(recipients, id)
				}
			}
			hub.BroadcastToUsers(recipients, ws.Event{
				Op:   ws.OpGroupTypingStart,
				Data: ws.TypingStartData{UserID: userID, GroupID: data.GroupID},
			})

		case data.UserID != "" && data.UserID != userID:
			// Arkadaş olmayan birine typing sinyali sızdırılmaz
			ok, err := friendships.AreFriends(ctx, userID, data.UserID)
			if err != nil || !ok {
				return
			}
			hub.BroadcastToUser(data.UserID, ws.Event{
				Op:   ws.OpDMTypingStart,
				Data: ws.TypingStartData{UserID: userID},
			})
		}
	})

	// ─── Ready ───
	hub.SetReadyProvider(func(userID string) any {
		online := []string{}
		friendIDs, err := friendships.FriendIDs(context.Background(), userID)
		if err != nil {
			log.Printf("[ws] failed to load friends for ready user=%s: %v", userID, err)
		}
		for _, id := range friendIDs {
			if hub.IsOnline(id) {
				online = append(online, id)
			}
		}
		return ws.ReadyData{UserID: userID, OnlineFriendIDs: online}
	})
}

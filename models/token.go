package models

import "github.com/golang-jwt/jwt/v5"

// TokenClaims, access token'ın payload'ı.
//
// models paketinde durur çünkü services, middleware ve ws aynı tipi kullanır;
// her katman models'e bağımlı olabildiği için circular import oluşmaz.
type TokenClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// AuthTokens, login/register/refresh yanıtı.
type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         *User  `json:"user"`
}

// RefreshRequest, refresh ve logout body'si.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

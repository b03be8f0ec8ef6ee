package jwt

import "github.com/golang-jwt/jwt"

// Payload defines the structure of the JSON Web Token (JWT) claims consumed
// by the chat backend. Tokens are issued by the external authentication
// service; this server only verifies them and extracts the user identity.
type Payload struct {
	// StandardClaims embeds the necessary JWT standard fields such as Exp (Expiration),
	// Iat (Issued At), and Iss (Issuer). These are crucial for token validity checks.
	jwt.StandardClaims `json:"standard_claims"`

	// UserID is the identifier of the authenticated user.
	UserID string `json:"userId"`

	// Email is the account email carried in the token for display purposes.
	Email string `json:"email,omitempty"`
}

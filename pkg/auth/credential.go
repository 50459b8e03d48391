package auth

import (
	"time"

	"golang.org/x/oauth2"
)

// Credential is the stored delegated-access credential. Field names match
// the provider's token response so the stored JSON round-trips cleanly.
type Credential struct {
	AccessToken   string `json:"access_token"`
	RefreshToken  string `json:"refresh_token,omitempty"`
	Scope         string `json:"scope"`
	TokenType     string `json:"token_type"`
	ExpiryEpochMs int64  `json:"expiry_date,omitempty"`
}

// Token converts the credential back into an oauth2 token. The oauth2
// client executes any refresh at call time; this package only stores the
// refresh token, it never uses it.
func (c *Credential) Token() *oauth2.Token {
	tok := &oauth2.Token{
		AccessToken:  c.AccessToken,
		RefreshToken: c.RefreshToken,
		TokenType:    c.TokenType,
	}
	if c.ExpiryEpochMs > 0 {
		tok.Expiry = time.UnixMilli(c.ExpiryEpochMs)
	}
	return tok
}

func credentialFromToken(tok *oauth2.Token) *Credential {
	cred := &Credential{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
	}
	if scope, ok := tok.Extra("scope").(string); ok {
		cred.Scope = scope
	}
	if !tok.Expiry.IsZero() {
		cred.ExpiryEpochMs = tok.Expiry.UnixMilli()
	}
	return cred
}

func (c *Credential) expired(now time.Time) bool {
	return c.ExpiryEpochMs > 0 && now.UnixMilli() > c.ExpiryEpochMs
}

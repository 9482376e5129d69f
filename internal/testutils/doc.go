// Package testutils provides testing utilities for taskdesk.
//
// This package contains helpers for:
// 1. Minting bearer tokens with chosen expiry times
// 2. Building test users and tasks
// 3. Running a fake remote task service
// 4. Capturing structured log output
//
// # Fake remote service
//
// FakeRemote serves the task service API under /api on an httptest server.
// Passwords are bcrypt-hashed, tokens are HS256 JWTs signed with
// TestJWTSecret, and search results come back in page shape in descending
// id order so that callers exercise normalization:
//
//	remote := testutils.NewFakeRemote(t)
//	remote.AddUser("Ana", "Lima", "ana@example.com", "secret123")
//	remote.AddTask(testutils.NewTestTask(testutils.WithTaskDescription("Write report")))
//
//	cfg := config.RemoteConfig{BaseURL: remote.BaseURL()}
//
// # Tokens
//
//	token := testutils.MintToken(t, "ana@example.com", time.Now().Add(time.Hour))
//	expired := testutils.MintToken(t, "ana@example.com", time.Now().Add(-time.Minute))
package testutils

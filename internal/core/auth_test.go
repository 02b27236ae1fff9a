package core

import (
	"context"
	"errors"
	"testing"
)

func TestAuth_SignUpSignInSignOut(t *testing.T) {
	service := newTestService(t, newTestConfig(t, nil))
	ctx := context.Background()

	signedUp, err := service.SignUp(ctx, Credentials{Email: " Desk@Example.com ", Password: "secret-pw"})
	if err != nil {
		t.Fatalf("SignUp error: %v", err)
	}
	if signedUp.UserID == "" || signedUp.Token == "" {
		t.Fatalf("incomplete auth result %+v", signedUp)
	}

	userID, err := service.Authenticate(ctx, signedUp.Token)
	if err != nil {
		t.Fatalf("Authenticate error: %v", err)
	}
	if userID != signedUp.UserID {
		t.Errorf("Authenticate = %q, want %q", userID, signedUp.UserID)
	}

	signedIn, err := service.SignIn(ctx, Credentials{Email: "desk@example.com", Password: "secret-pw"})
	if err != nil {
		t.Fatalf("SignIn error: %v", err)
	}
	if signedIn.UserID != signedUp.UserID {
		t.Errorf("SignIn user = %q, want %q", signedIn.UserID, signedUp.UserID)
	}
	if signedIn.Token == signedUp.Token {
		t.Error("each sign in must start a new session")
	}

	if err := service.SignOut(ctx, signedIn.Token); err != nil {
		t.Fatalf("SignOut error: %v", err)
	}
	if _, err := service.Authenticate(ctx, signedIn.Token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized after sign out, got %v", err)
	}
	if _, err := service.Authenticate(ctx, signedUp.Token); err != nil {
		t.Errorf("other sessions must survive sign out: %v", err)
	}
}

func TestAuth_SignUpValidation(t *testing.T) {
	service := newTestService(t, newTestConfig(t, nil))
	ctx := context.Background()

	if _, err := service.SignUp(ctx, Credentials{Email: "taken@example.com", Password: "secret-pw"}); err != nil {
		t.Fatalf("SignUp error: %v", err)
	}

	tests := []struct {
		name        string
		credentials Credentials
	}{
		{name: "invalid email", credentials: Credentials{Email: "not-an-email", Password: "secret-pw"}},
		{name: "display name email", credentials: Credentials{Email: "Mallory <victim@example.com>", Password: "secret-pw"}},
		{name: "short password", credentials: Credentials{Email: "new@example.com", Password: "123"}},
		{name: "duplicate email", credentials: Credentials{Email: "TAKEN@example.com", Password: "secret-pw"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := service.SignUp(ctx, tt.credentials); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestAuth_SignInNormalizesEmail(t *testing.T) {
	service := newTestService(t, newTestConfig(t, nil))
	ctx := context.Background()

	signedUp, err := service.SignUp(ctx, Credentials{Email: "victim@example.com", Password: "secret-pw"})
	if err != nil {
		t.Fatalf("SignUp error: %v", err)
	}
	signedIn, err := service.SignIn(ctx, Credentials{Email: " Victim@Example.com", Password: "secret-pw"})
	if err != nil {
		t.Fatalf("SignIn error: %v", err)
	}
	if signedIn.UserID != signedUp.UserID {
		t.Errorf("SignIn user = %q, want %q", signedIn.UserID, signedUp.UserID)
	}
}

func TestAuth_SignInFailures(t *testing.T) {
	service := newTestService(t, newTestConfig(t, nil))
	ctx := context.Background()
	if _, err := service.SignUp(ctx, Credentials{Email: "user@example.com", Password: "secret-pw"}); err != nil {
		t.Fatalf("SignUp error: %v", err)
	}

	if _, err := service.SignIn(ctx, Credentials{Email: "user@example.com", Password: "wrong-pw"}); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("wrong password: expected ErrUnauthorized, got %v", err)
	}
	if _, err := service.SignIn(ctx, Credentials{Email: "nobody@example.com", Password: "secret-pw"}); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("unknown user: expected ErrUnauthorized, got %v", err)
	}
	if _, err := service.SignIn(ctx, Credentials{Email: "user@example.com"}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("missing password: expected ErrInvalidInput, got %v", err)
	}
	if _, err := service.Authenticate(ctx, ""); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("empty token: expected ErrUnauthorized, got %v", err)
	}
}

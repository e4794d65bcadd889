package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/amotify/amotify/internal/domain"
	"github.com/amotify/amotify/internal/usecase"
	"github.com/amotify/amotify/internal/usecase/mocks"
)

func TestUserUseCase_Register(t *testing.T) {
	tests := []struct {
		name    string
		input   usecase.RegisterInput
		setup   func(*mocks.MockUserRepository)
		wantErr error
	}{
		{
			name: "successful registration",
			input: usecase.RegisterInput{
				Email:     "alice@example.com",
				FirstName: "Alice",
				LastName:  "Smith",
				Password:  "Sup3rsecret",
			},
		},
		{
			name: "duplicate email",
			input: usecase.RegisterInput{
				Email:     "alice@example.com",
				FirstName: "Alice",
				Password:  "Sup3rsecret",
			},
			setup: func(repo *mocks.MockUserRepository) {
				_ = repo.Create(context.Background(), &domain.User{ID: "u1", Email: "alice@example.com"})
			},
			wantErr: domain.ErrUserAlreadyExists,
		},
		{
			name: "invalid email",
			input: usecase.RegisterInput{
				Email:    "not-an-email",
				Password: "Sup3rsecret",
			},
			wantErr: domain.ErrInvalidEmail,
		},
		{
			name: "weak password",
			input: usecase.RegisterInput{
				Email:    "bob@example.com",
				Password: "short",
			},
			wantErr: domain.ErrPasswordTooWeak,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewMockUserRepository()
			if tt.setup != nil {
				tt.setup(repo)
			}

			uc := usecase.NewUserUseCase(repo, mocks.NewMockIDGenerator())
			user, err := uc.Register(context.Background(), tt.input)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if user.HashedPassword != "" {
				t.Error("hashed password leaked in response")
			}
			if user.Email != tt.input.Email {
				t.Errorf("email = %q, want %q", user.Email, tt.input.Email)
			}
		})
	}
}

func TestUserUseCase_Authenticate(t *testing.T) {
	repo := mocks.NewMockUserRepository()
	uc := usecase.NewUserUseCase(repo, mocks.NewMockIDGenerator())

	registered, err := uc.Register(context.Background(), usecase.RegisterInput{
		Email:     "alice@example.com",
		FirstName: "Alice",
		Password:  "Sup3rsecret",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("valid credentials", func(t *testing.T) {
		user, err := uc.Authenticate(context.Background(), usecase.AuthenticateInput{
			Email:    "alice@example.com",
			Password: "Sup3rsecret",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user.ID != registered.ID {
			t.Errorf("user ID = %s, want %s", user.ID, registered.ID)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := uc.Authenticate(context.Background(), usecase.AuthenticateInput{
			Email:    "alice@example.com",
			Password: "WrongPassw0rd",
		})
		if err != domain.ErrInvalidCredentials {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := uc.Authenticate(context.Background(), usecase.AuthenticateInput{
			Email:    "ghost@example.com",
			Password: "Sup3rsecret",
		})
		if err != domain.ErrInvalidCredentials {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})
}

func TestUserUseCase_ListMembers(t *testing.T) {
	repo := mocks.NewMockUserRepository()
	uc := usecase.NewUserUseCase(repo, mocks.NewMockIDGenerator())

	for _, u := range []*domain.User{
		{ID: "u1", Email: "a@example.com", FirstName: "Ana", LastName: "Silva"},
		{ID: "u2", Email: "b@example.com", FirstName: "Bruno", LastName: "Costa"},
		{ID: "u3", Email: "c@example.com", FirstName: "Carla", LastName: "Reis"},
	} {
		if err := repo.Create(context.Background(), u); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	members, err := uc.ListMembers(context.Background(), "u2", "", 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(members))
	}
	for _, m := range members {
		if m.ID == "u2" {
			t.Error("requesting user included in member list")
		}
	}

	matched, err := uc.ListMembers(context.Background(), "u2", "carla", 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matched) != 1 || matched[0].ID != "u3" {
		t.Fatalf("search = %+v, want only u3", matched)
	}
}

package identity

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// MemoryService backs tests without a database. Semantics mirror GormService.
type MemoryService struct {
	mu     sync.Mutex
	creds  map[string]Credential // keyed by principal id
	resets map[string]ResetToken // keyed by token
}

func NewMemoryService() *MemoryService {
	return &MemoryService{
		creds:  make(map[string]Credential),
		resets: make(map[string]ResetToken),
	}
}

func (s *MemoryService) SignUp(_ context.Context, email, password string) (Principal, error) {
	if err := validateSignUp(email, password); err != nil {
		return Principal{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.findByEmailLocked(email); ok {
		return Principal{}, ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Principal{}, err
	}
	hash := string(hashed)

	cred := Credential{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: &hash,
		AuthProvider: "local",
		CreatedAt:    time.Now(),
	}
	s.creds[cred.ID] = cred
	return Principal{ID: cred.ID, Email: cred.Email}, nil
}

func (s *MemoryService) SignIn(_ context.Context, email, password string) (Principal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cred, ok := s.findByEmailLocked(email)
	if !ok || cred.PasswordHash == nil {
		return Principal{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*cred.PasswordHash), []byte(password)); err != nil {
		return Principal{}, ErrInvalidCredentials
	}
	return Principal{ID: cred.ID, Email: cred.Email}, nil
}

func (s *MemoryService) SignOut(_ context.Context, _ string) error {
	return nil
}

func (s *MemoryService) SendPasswordReset(_ context.Context, email string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cred, ok := s.findByEmailLocked(email)
	if !ok {
		return "", ErrNotFound
	}

	for token, reset := range s.resets {
		if reset.PrincipalID == cred.ID {
			delete(s.resets, token)
		}
	}

	token := newResetToken()
	s.resets[token] = ResetToken{
		PrincipalID: cred.ID,
		Token:       token,
		ExpiresAt:   time.Now().Add(1 * time.Hour),
	}
	return token, nil
}

func (s *MemoryService) ResetPassword(_ context.Context, token, newPassword string) error {
	if !isPasswordStrong(newPassword) {
		return ErrWeakPassword
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	reset, ok := s.resets[token]
	if !ok || reset.ExpiresAt.Before(time.Now()) {
		return ErrBadResetToken
	}

	cred, ok := s.creds[reset.PrincipalID]
	if !ok {
		return ErrBadResetToken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	hash := string(hashed)
	cred.PasswordHash = &hash
	s.creds[cred.ID] = cred
	delete(s.resets, token)
	return nil
}

func (s *MemoryService) FindOrCreateGoogle(_ context.Context, googleSub, email string) (Principal, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, cred := range s.creds {
		if cred.GoogleSub != nil && *cred.GoogleSub == googleSub {
			return Principal{ID: cred.ID, Email: cred.Email}, false, nil
		}
	}

	if cred, ok := s.findByEmailLocked(email); ok {
		if cred.GoogleSub == nil {
			sub := googleSub
			cred.GoogleSub = &sub
			cred.AuthProvider = "google"
			s.creds[cred.ID] = cred
		}
		return Principal{ID: cred.ID, Email: cred.Email}, false, nil
	}

	sub := googleSub
	cred := Credential{
		ID:           uuid.NewString(),
		Email:        email,
		AuthProvider: "google",
		GoogleSub:    &sub,
		CreatedAt:    time.Now(),
	}
	s.creds[cred.ID] = cred
	return Principal{ID: cred.ID, Email: cred.Email}, true, nil
}

func (s *MemoryService) findByEmailLocked(email string) (Credential, bool) {
	for _, cred := range s.creds {
		if cred.Email == email {
			return cred, true
		}
	}
	return Credential{}, false
}

var _ Service = (*MemoryService)(nil)

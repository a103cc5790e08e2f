// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/taibuivan/collabconnect/internal/platform/apperr"
	"github.com/taibuivan/collabconnect/internal/platform/sec"
	"github.com/taibuivan/collabconnect/internal/session"
	"github.com/taibuivan/collabconnect/internal/session/sessiontest"
	"github.com/taibuivan/collabconnect/internal/users/auth"
)

// # In-memory repositories

type memUsers struct {
	mu      sync.Mutex
	byID    map[string]*auth.User
	findErr error
}

func newMemUsers() *memUsers {
	return &memUsers{byID: make(map[string]*auth.User)}
}

func (repo *memUsers) FindByID(_ context.Context, id string) (*auth.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if repo.findErr != nil {
		return nil, repo.findErr
	}
	user, ok := repo.byID[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	clone := *user
	return &clone, nil
}

func (repo *memUsers) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if repo.findErr != nil {
		return nil, repo.findErr
	}
	for _, user := range repo.byID {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *memUsers) Create(_ context.Context, user *auth.User) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, existing := range repo.byID {
		if existing.Email == user.Email {
			return apperr.AccountExists()
		}
	}
	clone := *user
	repo.byID[user.ID] = &clone
	return nil
}

func (repo *memUsers) UpdatePassword(_ context.Context, userID, newHash string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	user, ok := repo.byID[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	user.PasswordHash = newHash
	return nil
}

func (repo *memUsers) TouchLogin(context.Context, string, time.Time) error { return nil }

type memAudit struct {
	mu      sync.Mutex
	records map[string]*auth.LoginRecord
	order   []string
}

func newMemAudit() *memAudit {
	return &memAudit{records: make(map[string]*auth.LoginRecord)}
}

func (repo *memAudit) Create(_ context.Context, record *auth.LoginRecord) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	clone := *record
	repo.records[record.ID] = &clone
	repo.order = append(repo.order, record.ID)
	return nil
}

func (repo *memAudit) RecordEnd(_ context.Context, sessionID string, reason session.EndReason) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	record, ok := repo.records[sessionID]
	if !ok || record.EndedAt != nil {
		return nil
	}
	now := time.Now()
	record.EndedAt = &now
	record.EndReason = string(reason)
	return nil
}

func (repo *memAudit) ListByUser(_ context.Context, userID string, limit int) ([]*auth.LoginRecord, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	var out []*auth.LoginRecord
	for i := len(repo.order) - 1; i >= 0 && len(out) < limit; i-- {
		record := repo.records[repo.order[i]]
		if record.UserID == userID {
			clone := *record
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (repo *memAudit) ListOpen(_ context.Context, userID string) ([]string, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	var out []string
	for id, record := range repo.records {
		if record.UserID == userID && record.EndedAt == nil {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (repo *memAudit) get(sessionID string) auth.LoginRecord {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	return *repo.records[sessionID]
}

type memResets struct {
	mu     sync.Mutex
	tokens map[string]string
}

func (repo *memResets) Set(_ context.Context, tokenHash, userID string, _ time.Duration) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.tokens[tokenHash] = userID
	return nil
}

func (repo *memResets) Consume(_ context.Context, tokenHash string) (string, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	userID, ok := repo.tokens[tokenHash]
	if !ok {
		return "", apperr.NotFound("Reset token")
	}
	delete(repo.tokens, tokenHash)
	return userID, nil
}

type memCompanies struct {
	ids map[string]string
}

func (directory *memCompanies) Ensure(_ context.Context, name string) (string, error) {
	if id, ok := directory.ids[name]; ok {
		return id, nil
	}
	id := fmt.Sprintf("company-%d", len(directory.ids)+1)
	directory.ids[name] = id
	return id, nil
}

// # Collaborators

type fakeTokens struct{}

func (fakeTokens) GenerateAccessToken(userID, _ string, role sec.SystemRole, sessionID string, _ time.Duration) (string, error) {
	return fmt.Sprintf("%s|%s|%s", userID, role, sessionID), nil
}

type outcomeCounter struct {
	logins        map[string]int
	registrations map[string]int
}

func (counter *outcomeCounter) RecordLogin(outcome string)  { counter.logins[outcome]++ }
func (counter *outcomeCounter) RecordRegistration(r string) { counter.registrations[r]++ }

// # Fixture

var epoch = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

type authFixture struct {
	service   *auth.Service
	users     *memUsers
	audit     *memAudit
	resets    *memResets
	companies *memCompanies
	clock     *sessiontest.ManualClock
	manager   *session.Manager
	outcomes  *outcomeCounter
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	fixture := &authFixture{
		users:     newMemUsers(),
		audit:     newMemAudit(),
		resets:    &memResets{tokens: make(map[string]string)},
		companies: &memCompanies{ids: make(map[string]string)},
		clock:     sessiontest.NewManualClock(epoch),
		outcomes:  &outcomeCounter{logins: map[string]int{}, registrations: map[string]int{}},
	}

	next := 0
	manager, err := session.NewManager(
		session.Config{Timeout: 20 * time.Minute, WarningLead: time.Minute},
		session.Deps{
			Store:    session.NewMemoryStore(),
			Clock:    fixture.clock,
			Recorder: fixture.audit,
			NewID: func() string {
				next++
				return fmt.Sprintf("sid-%d", next)
			},
		},
	)
	require.NoError(t, err)
	t.Cleanup(manager.Shutdown)
	fixture.manager = manager

	fixture.service = auth.NewService(fixture.users, fixture.audit, fixture.resets, manager, fakeTokens{}, 12*time.Hour).
		WithCompanies(fixture.companies).
		WithObserver(fixture.outcomes)

	return fixture
}

func (fixture *authFixture) register(t *testing.T, email, password, jobTitle, company string) *auth.User {
	t.Helper()
	user, err := fixture.service.Register(context.Background(), auth.RegisterInput{
		Email:       email,
		Password:    password,
		FullName:    "Ana Pérez",
		CompanyName: company,
		JobTitle:    jobTitle,
	})
	require.NoError(t, err)
	return user
}

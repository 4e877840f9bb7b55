package importer

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/inkpress/blogger-import/app/database"
	"github.com/inkpress/blogger-import/app/feed"
)

const generatedPasswordLength = 8

// resolveUsers derives the distinct authors referenced by the feed and
// resolves each against the user store, creating missing ones with
// generated credentials. Creation runs strictly one user at a time so
// later lookups see prior inserts; the first failure aborts the whole
// resolution.
func (im *Importer) resolveUsers(ctx context.Context, parsed *feed.Feed, opts Options) ([]*UserStub, error) {
	if !opts.CreateNewUsers {
		return nil, nil
	}

	var stubs []*UserStub
	seen := make(map[string]bool)
	for _, entry := range parsed.Entries {
		username := entry.Author
		if username == "" || seen[username] {
			continue
		}
		seen[username] = true
		stubs = append(stubs, &UserStub{Username: username})
	}

	for _, stub := range stubs {
		existing, err := im.users.GetByUsername(ctx, stub.Username)
		if err != nil {
			return nil, fmt.Errorf("%w: loading user %q: %v", ErrPersistence, stub.Username, err)
		}
		if existing != nil {
			slog.Debug("User already exists", "username", stub.Username)
			stub.ID = existing.ID
			stub.Email = existing.Email
			stub.AccessLevel = existing.AccessLevel
			continue
		}

		user, password, err := newGeneratedUser(stub.Username)
		if err != nil {
			return nil, err
		}
		if err := im.users.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("%w: creating user %q: %v", ErrPersistence, stub.Username, err)
		}
		slog.Debug("Created user", "username", stub.Username)

		stub.ID = user.ID
		stub.Email = user.Email
		stub.AccessLevel = user.AccessLevel
		stub.Created = true
		stub.GeneratedPassword = password
	}

	return stubs, nil
}

// EnsureUser resolves a username against the user store, creating the
// record with generated credentials when absent. The returned password
// is empty for pre-existing users.
func EnsureUser(ctx context.Context, repo database.UserRepository, username string) (*database.User, string, error) {
	existing, err := repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, "", fmt.Errorf("%w: loading user %q: %v", ErrPersistence, username, err)
	}
	if existing != nil {
		return existing, "", nil
	}

	user, password, err := newGeneratedUser(username)
	if err != nil {
		return nil, "", err
	}
	if err := repo.Create(ctx, user); err != nil {
		return nil, "", fmt.Errorf("%w: creating user %q: %v", ErrPersistence, username, err)
	}

	return user, password, nil
}

func newGeneratedUser(username string) (*database.User, string, error) {
	password, err := generatePassword(generatedPasswordLength)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate password: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	return &database.User{
		Username:     username,
		Email:        fmt.Sprintf("user_%s@placeholder.com", uuid.NewString()),
		PasswordHash: string(hash),
		AccessLevel:  database.AccessLevelWriter,
	}, password, nil
}

func generatePassword(length int) (string, error) {
	const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = alphabet[int(b)%len(alphabet)]
	}

	return string(buf), nil
}

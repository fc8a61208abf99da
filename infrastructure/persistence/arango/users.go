package arango

import (
	"context"

	driver "github.com/arangodb/go-driver"
	"go.uber.org/zap"

	"hivemind/domain/user"
	"hivemind/pkg/errors"
)

// UserRepository stores accounts in the users collection.
type UserRepository struct {
	db     driver.Database
	logger *zap.Logger
}

// NewUserRepository creates a new repository.
func NewUserRepository(db driver.Database, logger *zap.Logger) *UserRepository {
	return &UserRepository{db: db, logger: logger}
}

// Create inserts a user and fills in its identity.
func (r *UserRepository) Create(ctx context.Context, u *user.User) (*user.User, error) {
	col, err := r.db.Collection(ctx, UsersCollection)
	if err != nil {
		return nil, errors.NewDatabaseError("open users collection", err)
	}
	meta, err := col.CreateDocument(ctx, u)
	if err != nil {
		return nil, errors.NewDatabaseError("create user", err)
	}
	u.Key = meta.Key
	u.ID = string(meta.ID)
	return u, nil
}

// GetByID retrieves a user by full id.
func (r *UserRepository) GetByID(ctx context.Context, userID string) (*user.User, error) {
	key := userID
	const prefix = UsersCollection + "/"
	if len(key) > len(prefix) && key[:len(prefix)] == prefix {
		key = key[len(prefix):]
	}

	col, err := r.db.Collection(ctx, UsersCollection)
	if err != nil {
		return nil, errors.NewDatabaseError("open users collection", err)
	}
	var u user.User
	if _, err := col.ReadDocument(ctx, key, &u); err != nil {
		if driver.IsNotFound(err) {
			return nil, errors.NewNotFoundError("user")
		}
		return nil, errors.NewDatabaseError("read user", err)
	}
	u.Key = key
	u.ID = UsersCollection + "/" + key
	return &u, nil
}

// GetByUsername retrieves a user by username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	query := `
		FOR u IN @@col
			FILTER u.Username == @username
			LIMIT 1
			RETURN u`
	cursor, err := r.db.Query(ctx, query, map[string]interface{}{
		"@col":     UsersCollection,
		"username": username,
	})
	if err != nil {
		return nil, errors.NewDatabaseError("find user", err)
	}
	defer cursor.Close()

	if !cursor.HasMore() {
		return nil, errors.NewNotFoundError("user")
	}
	var u user.User
	meta, err := cursor.ReadDocument(ctx, &u)
	if err != nil {
		return nil, errors.NewDatabaseError("read user", err)
	}
	u.Key = meta.Key
	u.ID = string(meta.ID)
	return &u, nil
}

// SetCurrentHive records the user's default hive.
func (r *UserRepository) SetCurrentHive(ctx context.Context, userID, hiveID string) error {
	return r.patch(ctx, userID, map[string]interface{}{"CurrentHiveId": hiveID}, "set current hive")
}

// SetLastCreatedItem records or clears the user's undo stamp.
func (r *UserRepository) SetLastCreatedItem(ctx context.Context, userID, stamp string) error {
	return r.patch(ctx, userID, map[string]interface{}{"LastCreatedItem": stamp}, "set last created item")
}

func (r *UserRepository) patch(ctx context.Context, userID string, fields map[string]interface{}, op string) error {
	key := userID
	const prefix = UsersCollection + "/"
	if len(key) > len(prefix) && key[:len(prefix)] == prefix {
		key = key[len(prefix):]
	}

	col, err := r.db.Collection(ctx, UsersCollection)
	if err != nil {
		return errors.NewDatabaseError("open users collection", err)
	}
	if _, err := col.UpdateDocument(ctx, key, fields); err != nil {
		if driver.IsNotFound(err) {
			return errors.NewNotFoundError("user")
		}
		return errors.NewDatabaseError(op, err)
	}
	return nil
}

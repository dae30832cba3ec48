package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/RiasZoV/Practice/internal/core/domain"
)

// DirectoryRepository stores users, roles and functions in separate
// collections with int64 ids drawn from a counters collection.
type DirectoryRepository struct {
	users     *mongo.Collection
	roles     *mongo.Collection
	functions *mongo.Collection
	counters  *mongo.Collection
}

func NewDirectoryRepository(db *mongo.Database) *DirectoryRepository {
	return &DirectoryRepository{
		users:     db.Collection(collectionUsers),
		roles:     db.Collection(collectionRoles),
		functions: db.Collection(collectionFunctions),
		counters:  db.Collection(collectionCounters),
	}
}

// EnsureIndexes creates the unique indexes the directory relies on.
func (r *DirectoryRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, err := r.users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "login", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "subordinate_ids", Value: 1}}},
	}); err != nil {
		return fmt.Errorf("users indexes: %w", err)
	}
	if _, err := r.roles.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("roles indexes: %w", err)
	}
	if _, err := r.functions.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}, {Key: "role_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("functions indexes: %w", err)
	}
	return nil
}

// nextID atomically increments and returns the named sequence.
func (r *DirectoryRepository) nextID(ctx context.Context, name string) (int64, error) {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var c counterDoc
	err := r.counters.FindOneAndUpdate(ctx, bson.M{"_id": name}, bson.M{"$inc": bson.M{"seq": 1}}, opts).Decode(&c)
	if err != nil {
		return 0, fmt.Errorf("next %s id: %w", name, err)
	}
	return c.Seq, nil
}

func (r *DirectoryRepository) findRole(ctx context.Context, filter bson.M) (roleDoc, error) {
	var d roleDoc
	if err := r.roles.FindOne(ctx, filter).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return d, domain.ErrRoleNotFound
		}
		return d, fmt.Errorf("find role: %w", err)
	}
	return d, nil
}

func (r *DirectoryRepository) findUser(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d userDoc
	if err := r.users.FindOne(ctx, filter).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	role, err := r.findRole(ctx, bson.M{"_id": d.RoleID})
	if err != nil {
		return nil, err
	}
	return d.toDomain(role), nil
}

func (r *DirectoryRepository) FindUserByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.findUser(ctx, bson.M{"_id": id})
}

func (r *DirectoryRepository) FindUserByLogin(ctx context.Context, login string) (*domain.User, error) {
	return r.findUser(ctx, bson.M{"login": login})
}

func (r *DirectoryRepository) CreateUser(ctx context.Context, u *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	role, err := r.findRole(ctx, bson.M{"_id": u.Role.ID})
	if err != nil {
		return nil, err
	}
	id, err := r.nextID(ctx, collectionUsers)
	if err != nil {
		return nil, err
	}

	doc := userDoc{
		ID:           id,
		Login:        u.Login,
		PasswordHash: u.PasswordHash,
		Age:          u.Age,
		RoleID:       role.ID,
		LastLogin:    u.LastLogin,
	}
	if _, err := r.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateLogin
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return doc.toDomain(role), nil
}

func (r *DirectoryRepository) UpdateUser(ctx context.Context, u *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.findRole(ctx, bson.M{"_id": u.Role.ID}); err != nil {
		return err
	}
	set := bson.M{
		"password_hash": u.PasswordHash,
		"age":           u.Age,
		"role_id":       u.Role.ID,
	}
	update := bson.M{"$set": set}
	if u.LastLogin != nil {
		set["last_login"] = *u.LastLogin
	} else {
		update["$unset"] = bson.M{"last_login": ""}
	}

	res, err := r.users.UpdateOne(ctx, bson.M{"_id": u.ID}, update)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// DeleteUser pulls the id from every subordinate set, then removes the user
// document. A failure between the two writes leaves the user in place.
func (r *DirectoryRepository) DeleteUser(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.users.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if n == 0 {
		return domain.ErrUserNotFound
	}
	if _, err := r.users.UpdateMany(ctx,
		bson.M{"subordinate_ids": id},
		bson.M{"$pull": bson.M{"subordinate_ids": id}},
	); err != nil {
		return fmt.Errorf("delete subordinate links: %w", err)
	}
	res, err := r.users.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *DirectoryRepository) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return r.listUsers(ctx, bson.M{})
}

func (r *DirectoryRepository) listUsers(ctx context.Context, filter bson.M) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	roles, err := r.roleIndex(ctx)
	if err != nil {
		return nil, err
	}

	cur, err := r.users.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	out := make([]*domain.User, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain(roles[docs[i].RoleID]))
	}
	return out, nil
}

func (r *DirectoryRepository) roleIndex(ctx context.Context) (map[int64]roleDoc, error) {
	cur, err := r.roles.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	var docs []roleDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	idx := make(map[int64]roleDoc, len(docs))
	for _, d := range docs {
		idx[d.ID] = d
	}
	return idx, nil
}

func (r *DirectoryRepository) CountUsers(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.users.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func (r *DirectoryRepository) Subordinates(ctx context.Context, managerID int64) ([]*domain.User, error) {
	var mgr userDoc
	err := r.users.FindOne(ctx, bson.M{"_id": managerID},
		options.FindOne().SetProjection(bson.M{"subordinate_ids": 1}),
	).Decode(&mgr)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return []*domain.User{}, nil
		}
		return nil, fmt.Errorf("list subordinates: %w", err)
	}
	if len(mgr.SubordinateIDs) == 0 {
		return []*domain.User{}, nil
	}
	return r.listUsers(ctx, bson.M{"_id": bson.M{"$in": mgr.SubordinateIDs}})
}

func (r *DirectoryRepository) ReplaceSubordinates(ctx context.Context, managerID int64, subordinateIDs []int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	ids := uniqueIDs(subordinateIDs)
	if len(ids) > 0 {
		n, err := r.users.CountDocuments(ctx, bson.M{"_id": bson.M{"$in": ids}})
		if err != nil {
			return fmt.Errorf("check subordinates: %w", err)
		}
		if n != int64(len(ids)) {
			return domain.ErrUserNotFound
		}
	}

	res, err := r.users.UpdateOne(ctx, bson.M{"_id": managerID}, bson.M{"$set": bson.M{"subordinate_ids": ids}})
	if err != nil {
		return fmt.Errorf("replace subordinates: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *DirectoryRepository) FindRoleByName(ctx context.Context, name string) (*domain.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	d, err := r.findRole(ctx, bson.M{"name": name})
	if err != nil {
		return nil, err
	}
	return &domain.Role{ID: d.ID, Name: d.Name}, nil
}

func (r *DirectoryRepository) CreateRole(ctx context.Context, name string) (*domain.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.nextID(ctx, collectionRoles)
	if err != nil {
		return nil, err
	}
	if _, err := r.roles.InsertOne(ctx, roleDoc{ID: id, Name: name}); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateRole
		}
		return nil, fmt.Errorf("insert role: %w", err)
	}
	return &domain.Role{ID: id, Name: name}, nil
}

func (r *DirectoryRepository) ListRoles(ctx context.Context) ([]*domain.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.roles.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	var docs []roleDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	out := make([]*domain.Role, 0, len(docs))
	for _, d := range docs {
		out = append(out, &domain.Role{ID: d.ID, Name: d.Name})
	}
	return out, nil
}

func (r *DirectoryRepository) FindFunction(ctx context.Context, name string, roleID int64) (*domain.Function, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d functionDoc
	if err := r.functions.FindOne(ctx, bson.M{"name": name, "role_id": roleID}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrFunctionNotFound
		}
		return nil, fmt.Errorf("find function: %w", err)
	}
	return d.toDomain(), nil
}

func (r *DirectoryRepository) CreateFunction(ctx context.Context, f *domain.Function) (*domain.Function, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.findRole(ctx, bson.M{"_id": f.RoleID}); err != nil {
		return nil, err
	}
	id, err := r.nextID(ctx, collectionFunctions)
	if err != nil {
		return nil, err
	}
	doc := functionDoc{ID: id, Name: f.Name, AccessLevel: f.AccessLevel, RoleID: f.RoleID}
	if _, err := r.functions.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateFunction
		}
		return nil, fmt.Errorf("insert function: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *DirectoryRepository) ListFunctions(ctx context.Context) ([]*domain.Function, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.functions.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list functions: %w", err)
	}
	var docs []functionDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list functions: %w", err)
	}
	out := make([]*domain.Function, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

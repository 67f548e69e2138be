package user

import (
	"chat-admin-backend/internal/database"
	"chat-admin-backend/internal/model"
	"context"
	"errors"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

var ErrNotFound = errors.New("user repository: not found")

const userCounterName = "users"

type Repository interface {
	CreateUser(ctx context.Context, user model.UserItem) error
	SaveUser(ctx context.Context, user model.UserItem) error
	GetUser(ctx context.Context, userID int) (model.UserItem, error)
	FindUserByEmail(ctx context.Context, email string) (model.UserItem, error)
	ListUsers(ctx context.Context) ([]model.UserItem, error)
	NextUserID(ctx context.Context) (int, error)
}

type DynamoRepository struct {
	db *database.Database
}

func NewDynamoRepository(db *database.Database) Repository {
	return &DynamoRepository{db: db}
}

func (r *DynamoRepository) CreateUser(ctx context.Context, user model.UserItem) error {
	return r.db.Client.PutItem(ctx, model.UsersTable, user)
}

func (r *DynamoRepository) SaveUser(ctx context.Context, user model.UserItem) error {
	return r.db.Client.PutItem(ctx, model.UsersTable, user)
}

func (r *DynamoRepository) GetUser(ctx context.Context, userID int) (model.UserItem, error) {
	var user model.UserItem
	err := r.db.Client.GetItem(
		ctx,
		model.UsersTable,
		map[string]types.AttributeValue{
			"userId": database.AttrNumber(userID),
		},
		&user,
	)
	if err != nil {
		if isNotFoundError(err) {
			return model.UserItem{}, ErrNotFound
		}
		return model.UserItem{}, err
	}

	return user, nil
}

func (r *DynamoRepository) FindUserByEmail(ctx context.Context, email string) (model.UserItem, error) {
	items, err := r.db.Client.QueryItems(
		ctx,
		model.UsersTable,
		aws.String("byEmail"),
		"email = :email",
		map[string]types.AttributeValue{
			":email": database.AttrString(email),
		},
		nil,
		nil,
	)
	if err != nil {
		return model.UserItem{}, err
	}

	if len(items) == 0 {
		return model.UserItem{}, ErrNotFound
	}

	var user model.UserItem
	if err := attributevalue.UnmarshalMap(items[0], &user); err != nil {
		return model.UserItem{}, err
	}

	return user, nil
}

func (r *DynamoRepository) ListUsers(ctx context.Context) ([]model.UserItem, error) {
	items, err := r.db.Client.ScanAll(ctx, model.UsersTable)
	if err != nil {
		return nil, err
	}

	users := make([]model.UserItem, 0, len(items))
	for _, item := range items {
		var user model.UserItem
		if err := attributevalue.UnmarshalMap(item, &user); err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, nil
}

func (r *DynamoRepository) NextUserID(ctx context.Context) (int, error) {
	var counter model.CounterItem
	err := r.db.Client.UpdateItem(
		ctx,
		model.CountersTable,
		map[string]types.AttributeValue{
			"name": database.AttrString(userCounterName),
		},
		"ADD #v :inc",
		map[string]types.AttributeValue{
			":inc": database.AttrNumber(1),
		},
		map[string]string{
			"#v": "value",
		},
		&counter,
	)
	if err != nil {
		return 0, err
	}
	return counter.Value, nil
}

func isNotFoundError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "item not found")
}

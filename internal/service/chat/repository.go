package chat

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

var ErrNotFound = errors.New("chat repository: not found")

const chatCounterName = "chats"

type Repository interface {
	CreateChat(ctx context.Context, chat model.ChatItem) error
	SaveChat(ctx context.Context, chat model.ChatItem) error
	GetChat(ctx context.Context, chatID int) (model.ChatItem, error)
	DeleteChat(ctx context.Context, chatID int) error
	ListChats(ctx context.Context) ([]model.ChatItem, error)
	ListChatsByOwner(ctx context.Context, ownerID int) ([]model.ChatItem, error)
	NextChatID(ctx context.Context) (int, error)

	CreateInvitation(ctx context.Context, invitation model.InvitationItem) error
	GetInvitation(ctx context.Context, chatID, userID int) (model.InvitationItem, error)
	DeleteInvitation(ctx context.Context, chatID, userID int) error
	ListInvitationsByChat(ctx context.Context, chatID int) ([]model.InvitationItem, error)
	ListInvitationsByUser(ctx context.Context, userID int) ([]model.InvitationItem, error)
	DeleteInvitationsForChat(ctx context.Context, chatID int) error
}

type DynamoRepository struct {
	db *database.Database
}

func NewDynamoRepository(db *database.Database) Repository {
	return &DynamoRepository{db: db}
}

func (r *DynamoRepository) CreateChat(ctx context.Context, chat model.ChatItem) error {
	return r.db.Client.PutItem(ctx, model.ChatsTable, chat)
}

func (r *DynamoRepository) SaveChat(ctx context.Context, chat model.ChatItem) error {
	return r.db.Client.PutItem(ctx, model.ChatsTable, chat)
}

func (r *DynamoRepository) GetChat(ctx context.Context, chatID int) (model.ChatItem, error) {
	var chat model.ChatItem
	err := r.db.Client.GetItem(
		ctx,
		model.ChatsTable,
		map[string]types.AttributeValue{
			"chatId": database.AttrNumber(chatID),
		},
		&chat,
	)
	if err != nil {
		if isNotFoundError(err) {
			return model.ChatItem{}, ErrNotFound
		}
		return model.ChatItem{}, err
	}

	return chat, nil
}

func (r *DynamoRepository) DeleteChat(ctx context.Context, chatID int) error {
	return r.db.Client.DeleteItem(
		ctx,
		model.ChatsTable,
		map[string]types.AttributeValue{
			"chatId": database.AttrNumber(chatID),
		},
	)
}

func (r *DynamoRepository) ListChats(ctx context.Context) ([]model.ChatItem, error) {
	items, err := r.db.Client.ScanAll(ctx, model.ChatsTable)
	if err != nil {
		return nil, err
	}

	return unmarshalChats(items)
}

func (r *DynamoRepository) ListChatsByOwner(ctx context.Context, ownerID int) ([]model.ChatItem, error) {
	items, err := r.db.Client.QueryItems(
		ctx,
		model.ChatsTable,
		aws.String("byOwner"),
		"ownerId = :ownerId",
		map[string]types.AttributeValue{
			":ownerId": database.AttrNumber(ownerID),
		},
		nil,
		nil,
	)
	if err != nil {
		return nil, err
	}

	return unmarshalChats(items)
}

func (r *DynamoRepository) NextChatID(ctx context.Context) (int, error) {
	var counter model.CounterItem
	err := r.db.Client.UpdateItem(
		ctx,
		model.CountersTable,
		map[string]types.AttributeValue{
			"name": database.AttrString(chatCounterName),
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

func (r *DynamoRepository) CreateInvitation(ctx context.Context, invitation model.InvitationItem) error {
	return r.db.Client.PutItem(ctx, model.InvitationsTable, invitation)
}

func (r *DynamoRepository) GetInvitation(ctx context.Context, chatID, userID int) (model.InvitationItem, error) {
	var invitation model.InvitationItem
	err := r.db.Client.GetItem(
		ctx,
		model.InvitationsTable,
		map[string]types.AttributeValue{
			"pk": database.AttrString(model.InvitationPK(chatID, userID)),
		},
		&invitation,
	)
	if err != nil {
		if isNotFoundError(err) {
			return model.InvitationItem{}, ErrNotFound
		}
		return model.InvitationItem{}, err
	}

	return invitation, nil
}

func (r *DynamoRepository) DeleteInvitation(ctx context.Context, chatID, userID int) error {
	return r.db.Client.DeleteItem(
		ctx,
		model.InvitationsTable,
		map[string]types.AttributeValue{
			"pk": database.AttrString(model.InvitationPK(chatID, userID)),
		},
	)
}

func (r *DynamoRepository) ListInvitationsByChat(ctx context.Context, chatID int) ([]model.InvitationItem, error) {
	items, err := r.db.Client.QueryItems(
		ctx,
		model.InvitationsTable,
		aws.String("byChat"),
		"chatId = :chatId",
		map[string]types.AttributeValue{
			":chatId": database.AttrNumber(chatID),
		},
		nil,
		nil,
	)
	if err != nil {
		return nil, err
	}

	return unmarshalInvitations(items)
}

func (r *DynamoRepository) ListInvitationsByUser(ctx context.Context, userID int) ([]model.InvitationItem, error) {
	items, err := r.db.Client.QueryItems(
		ctx,
		model.InvitationsTable,
		aws.String("byUser"),
		"userId = :userId",
		map[string]types.AttributeValue{
			":userId": database.AttrNumber(userID),
		},
		nil,
		nil,
	)
	if err != nil {
		return nil, err
	}

	return unmarshalInvitations(items)
}

func (r *DynamoRepository) DeleteInvitationsForChat(ctx context.Context, chatID int) error {
	invitations, err := r.ListInvitationsByChat(ctx, chatID)
	if err != nil {
		return err
	}
	if len(invitations) == 0 {
		return nil
	}

	keys := make([]map[string]types.AttributeValue, 0, len(invitations))
	for _, invitation := range invitations {
		keys = append(keys, map[string]types.AttributeValue{
			"pk": database.AttrString(invitation.PK),
		})
	}

	return r.db.Client.BatchDeleteItems(ctx, model.InvitationsTable, keys)
}

func unmarshalChats(items []map[string]types.AttributeValue) ([]model.ChatItem, error) {
	chats := make([]model.ChatItem, 0, len(items))
	for _, item := range items {
		var chat model.ChatItem
		if err := attributevalue.UnmarshalMap(item, &chat); err != nil {
			return nil, err
		}
		chats = append(chats, chat)
	}
	return chats, nil
}

func unmarshalInvitations(items []map[string]types.AttributeValue) ([]model.InvitationItem, error) {
	invitations := make([]model.InvitationItem, 0, len(items))
	for _, item := range items {
		var invitation model.InvitationItem
		if err := attributevalue.UnmarshalMap(item, &invitation); err != nil {
			return nil, err
		}
		invitations = append(invitations, invitation)
	}
	return invitations, nil
}

func isNotFoundError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "item not found")
}

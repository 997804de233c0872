package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"

	console "github.com/velocitysales/admin-console/components/console"
)

// ConversationListInput identifies a conversation-list request. Channel
// optionally narrows the list to one messaging channel.
type ConversationListInput struct {
	Viewer  console.ViewerContext
	Tenant  string
	Channel string
}

type conversationService interface {
	Conversations(ctx context.Context, viewer console.ViewerContext, tenant string) ([]console.ConversationListItem, error)
	Conversation(ctx context.Context, viewer console.ViewerContext, tenant string, id int64) (console.ConversationDetail, error)
}

// ConversationListQuery fetches the conversation list, applying the channel
// filter view-side.
type ConversationListQuery struct {
	service conversationService
}

// NewConversationListQuery builds the query.
func NewConversationListQuery(service conversationService) *ConversationListQuery {
	return &ConversationListQuery{service: service}
}

var _ gocommand.Querier[ConversationListInput, []console.ConversationListItem] = (*ConversationListQuery)(nil)

// Query resolves the conversation list, preserving backend ordering.
func (q *ConversationListQuery) Query(ctx context.Context, input ConversationListInput) ([]console.ConversationListItem, error) {
	items, err := q.service.Conversations(ctx, input.Viewer, input.Tenant)
	if err != nil {
		return nil, err
	}
	return console.FilterConversationsByChannel(items, input.Channel), nil
}

// ConversationDetailInput identifies a single-conversation request.
type ConversationDetailInput struct {
	Viewer console.ViewerContext
	Tenant string
	ID     int64
}

// ConversationDetailQuery fetches a conversation's full message history.
type ConversationDetailQuery struct {
	service conversationService
}

// NewConversationDetailQuery builds the query.
func NewConversationDetailQuery(service conversationService) *ConversationDetailQuery {
	return &ConversationDetailQuery{service: service}
}

var _ gocommand.Querier[ConversationDetailInput, console.ConversationDetail] = (*ConversationDetailQuery)(nil)

// Query resolves the conversation detail.
func (q *ConversationDetailQuery) Query(ctx context.Context, input ConversationDetailInput) (console.ConversationDetail, error) {
	return q.service.Conversation(ctx, input.Viewer, input.Tenant, input.ID)
}

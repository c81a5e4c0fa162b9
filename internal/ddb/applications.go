package ddb

import (
	"context"
	"fmt"

	"github.com/tanya-writes/showcase-portal/internal/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// PutApplication inserts a new application record, ensuring no duplicate id exists.
// SubmittedAt is assigned by the store when empty.
func (r *Repo) PutApplication(ctx context.Context, a models.Application) error {
	if a.SubmittedAt == "" {
		a.SubmittedAt = r.nowISO()
	}
	if a.Status == "" {
		a.Status = models.StatusNew
	}
	item, err := attributevalue.MarshalMap(a)
	if err != nil {
		return fmt.Errorf("%w: marshal: %w", ErrCatalogWrite, err)
	}
	_, err = r.DB.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           &r.Table,
		Item:                item,
		ConditionExpression: awsStr("attribute_not_exists(id)"),
	})
	if err != nil {
		return fmt.Errorf("%w: put %s: %w", ErrCatalogWrite, r.Table, err)
	}
	return nil
}

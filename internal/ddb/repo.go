// Package ddb provides the DynamoDB repositories for showcase and application records.
package ddb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

var (
	// ErrCatalogWrite is returned when a record could not be written.
	ErrCatalogWrite = errors.New("catalog write error")
	// ErrCatalogRead is returned when records could not be read.
	ErrCatalogRead = errors.New("catalog read error")
	// ErrNotFound is returned, alongside ErrCatalogWrite, when updating an unknown id.
	ErrNotFound = errors.New("record not found")
)

// API is the subset of the DynamoDB client used by Repo.
type API interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

// Repo wraps a DynamoDB client and table name.
type Repo struct {
	DB    API
	Table string
	// Index is the status/created_at GSI used for listings.
	Index string
	// Now overrides the clock in tests.
	Now func() time.Time
}

// isoLayout is fixed width so that lexical order equals time order.
const isoLayout = "2006-01-02T15:04:05.000Z"

// awsStr is a helper to get a pointer to a string literal.
func awsStr(s string) *string { return &s }

// NowISO returns the current time in ISO8601 format.
func NowISO() string { return FormatISO(time.Now()) }

// FormatISO formats t in the store's timestamp layout.
func FormatISO(t time.Time) string { return t.UTC().Format(isoLayout) }

func (r *Repo) nowISO() string {
	if r.Now != nil {
		return FormatISO(r.Now())
	}
	return NowISO()
}

// IsReady checks that the table exists and is reachable.
func (r *Repo) IsReady(ctx context.Context) error {
	_, err := r.DB.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(r.Table),
	})
	return err
}

// Name identifies the repo in health output.
func (r *Repo) Name() string {
	return fmt.Sprintf("Catalog[%s]", r.Table)
}

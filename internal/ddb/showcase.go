package ddb

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/tanya-writes/showcase-portal/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/oklog/ulid/v2"
)

// ErrIncomplete is returned when a record is missing a field required for publication.
var ErrIncomplete = errors.New("record incomplete")

// CreateShowcase inserts a published record and returns its new id.
func (r *Repo) CreateShowcase(ctx context.Context, in models.ShowcaseInput) (string, error) {
	required := []struct{ name, value string }{
		{"title", in.Title},
		{"author", in.Author},
		{"description", in.Description},
		{"document_key", in.DocumentKey},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return "", fmt.Errorf("%w: %w: %s", ErrCatalogWrite, ErrIncomplete, f.name)
		}
	}

	now := r.nowISO()
	rec := models.Showcase{
		ID:           ulid.Make().String(),
		Title:        in.Title,
		Author:       in.Author,
		Description:  in.Description,
		DocumentKey:  in.DocumentKey,
		PDFURL:       in.PDFURL,
		ThumbnailURL: in.ThumbnailURL,
		Status:       models.StatusPublished,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return "", fmt.Errorf("%w: marshal: %w", ErrCatalogWrite, err)
	}
	_, err = r.DB.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           &r.Table,
		Item:                item,
		ConditionExpression: awsStr("attribute_not_exists(id)"),
	})
	if err != nil {
		return "", fmt.Errorf("%w: put %s: %w", ErrCatalogWrite, r.Table, err)
	}
	return rec.ID, nil
}

// UpdateShowcase merges the non-nil fields of patch into record id and bumps
// updated_at. Unknown ids fail with ErrNotFound.
func (r *Repo) UpdateShowcase(ctx context.Context, id string, patch models.ShowcasePatch) error {
	names := map[string]string{"#id": "id", "#updated": "updated_at"}
	values := map[string]types.AttributeValue{
		":updated": &types.AttributeValueMemberS{Value: r.nowISO()},
	}
	sets := []string{"#updated = :updated"}

	set := func(attr string, v *string) {
		if v == nil {
			return
		}
		names["#"+attr] = attr
		values[":"+attr] = &types.AttributeValueMemberS{Value: *v}
		sets = append(sets, fmt.Sprintf("#%s = :%s", attr, attr))
	}
	set("title", patch.Title)
	set("author", patch.Author)
	set("description", patch.Description)
	set("thumbnail_url", patch.ThumbnailURL)
	if patch.Status != nil {
		st := string(*patch.Status)
		set("status", &st)
	}

	_, err := r.DB.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.Table),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		UpdateExpression:          aws.String("SET " + strings.Join(sets, ", ")),
		ConditionExpression:       aws.String("attribute_exists(#id)"),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return fmt.Errorf("%w: %w: %s", ErrCatalogWrite, ErrNotFound, id)
		}
		return fmt.Errorf("%w: update %s: %w", ErrCatalogWrite, id, err)
	}
	return nil
}

// ListPublished returns published records, newest first, stopping after limit
// records (0 means no limit). Pages are fetched lazily as the sequence is
// ranged over, and every range re-runs the query. A read failure is yielded
// once as ErrCatalogRead and ends the sequence.
func (r *Repo) ListPublished(ctx context.Context, limit int) iter.Seq2[models.Showcase, error] {
	return func(yield func(models.Showcase, error) bool) {
		input := &dynamodb.QueryInput{
			TableName:              aws.String(r.Table),
			IndexName:              aws.String(r.Index),
			KeyConditionExpression: aws.String("#st = :st"),
			ExpressionAttributeNames: map[string]string{
				"#st": "status",
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":st": &types.AttributeValueMemberS{Value: string(models.StatusPublished)},
			},
			ScanIndexForward: aws.Bool(false),
		}
		if limit > 0 {
			input.Limit = aws.Int32(int32(limit))
		}

		n := 0
		p := dynamodb.NewQueryPaginator(r.DB, input)
		for p.HasMorePages() {
			page, err := p.NextPage(ctx)
			if err != nil {
				yield(models.Showcase{}, fmt.Errorf("%w: query %s: %w", ErrCatalogRead, r.Table, err))
				return
			}
			var items []models.Showcase
			if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
				yield(models.Showcase{}, fmt.Errorf("%w: unmarshal: %w", ErrCatalogRead, err))
				return
			}
			for _, it := range items {
				if !yield(it, nil) {
					return
				}
				n++
				if limit > 0 && n >= limit {
					return
				}
			}
		}
	}
}

// CollectPublished drains ListPublished into a slice.
func (r *Repo) CollectPublished(ctx context.Context, limit int) ([]models.Showcase, error) {
	var out []models.Showcase
	for rec, err := range r.ListPublished(ctx, limit) {
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

package ddb

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/tanya-writes/showcase-portal/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDynamo records requests and serves Query from pre-built pages.
type fakeDynamo struct {
	puts    []*dynamodb.PutItemInput
	updates []*dynamodb.UpdateItemInput
	queries []*dynamodb.QueryInput

	pages     [][]map[string]types.AttributeValue
	putErr    error
	updateErr error
	queryErr  error
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.puts = append(f.puts, in)
	return &dynamodb.PutItemOutput{}, f.putErr
}

func (f *fakeDynamo) UpdateItem(_ context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.updates = append(f.updates, in)
	return &dynamodb.UpdateItemOutput{}, f.updateErr
}

func (f *fakeDynamo) Query(_ context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.queries = append(f.queries, in)
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	page := 0
	if in.ExclusiveStartKey != nil {
		page, _ = strconv.Atoi(in.ExclusiveStartKey["page"].(*types.AttributeValueMemberN).Value)
	}
	out := &dynamodb.QueryOutput{}
	if page < len(f.pages) {
		out.Items = f.pages[page]
	}
	if page+1 < len(f.pages) {
		out.LastEvaluatedKey = map[string]types.AttributeValue{
			"page": &types.AttributeValueMemberN{Value: strconv.Itoa(page + 1)},
		}
	}
	return out, nil
}

func (f *fakeDynamo) DescribeTable(_ context.Context, in *dynamodb.DescribeTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	if aws.ToString(in.TableName) == "missing" {
		return nil, &types.ResourceNotFoundException{}
	}
	return &dynamodb.DescribeTableOutput{}, nil
}

var fixedNow = time.Date(2024, 8, 1, 9, 30, 0, 0, time.UTC)

func newRepo(db *fakeDynamo) *Repo {
	return &Repo{DB: db, Table: "showcase", Index: "status-created_at-index", Now: func() time.Time { return fixedNow }}
}

func item(t *testing.T, rec models.Showcase) map[string]types.AttributeValue {
	t.Helper()
	m, err := attributevalue.MarshalMap(rec)
	require.NoError(t, err)
	return m
}

func TestFormatISOIsFixedWidth(t *testing.T) {
	a := FormatISO(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))
	b := FormatISO(time.Date(2024, 1, 2, 3, 4, 5, 120_000_000, time.FixedZone("x", 3600)))
	assert.Equal(t, "2024-01-02T03:04:05.000Z", a)
	assert.Equal(t, "2024-01-02T02:04:05.120Z", b)
	assert.Len(t, b, len(a))
}

func TestCreateShowcase(t *testing.T) {
	db := &fakeDynamo{}
	r := newRepo(db)

	id, err := r.CreateShowcase(context.Background(), models.ShowcaseInput{
		Title:        "Ocean Dreams",
		Author:       "Mira",
		Description:  "A poem about the sea.",
		DocumentKey:  "1-poem.pdf",
		PDFURL:       "https://signed",
		ThumbnailURL: "/placeholder.jpg",
	})
	require.NoError(t, err)
	assert.Len(t, id, 26, "ULID")

	require.Len(t, db.puts, 1)
	put := db.puts[0]
	assert.Equal(t, "attribute_not_exists(id)", aws.ToString(put.ConditionExpression))

	var got models.Showcase
	require.NoError(t, attributevalue.UnmarshalMap(put.Item, &got))
	assert.Equal(t, id, got.ID)
	assert.Equal(t, models.StatusPublished, got.Status)
	assert.Equal(t, "Ocean Dreams", got.Title)
	assert.Equal(t, "1-poem.pdf", got.DocumentKey)
	assert.Equal(t, "2024-08-01T09:30:00.000Z", got.CreatedAt)
	assert.Equal(t, got.CreatedAt, got.UpdatedAt)
}

func TestCreateShowcaseRejectsIncomplete(t *testing.T) {
	db := &fakeDynamo{}
	_, err := newRepo(db).CreateShowcase(context.Background(), models.ShowcaseInput{
		Title: "T", Author: "A", Description: "  ", DocumentKey: "k",
	})
	assert.ErrorIs(t, err, ErrCatalogWrite)
	assert.ErrorIs(t, err, ErrIncomplete)
	assert.Empty(t, db.puts)
}

func TestCreateShowcaseWriteFailure(t *testing.T) {
	db := &fakeDynamo{putErr: errors.New("throttled")}
	_, err := newRepo(db).CreateShowcase(context.Background(), models.ShowcaseInput{
		Title: "T", Author: "A", Description: "D", DocumentKey: "k",
	})
	assert.ErrorIs(t, err, ErrCatalogWrite)
}

func TestUpdateShowcase(t *testing.T) {
	db := &fakeDynamo{}
	thumb := "https://thumbs/thumbnails/1-poem.jpg"

	require.NoError(t, newRepo(db).UpdateShowcase(context.Background(), "01J", models.ShowcasePatch{ThumbnailURL: &thumb}))

	require.Len(t, db.updates, 1)
	up := db.updates[0]
	assert.Equal(t, "SET #updated = :updated, #thumbnail_url = :thumbnail_url", aws.ToString(up.UpdateExpression))
	assert.Equal(t, "attribute_exists(#id)", aws.ToString(up.ConditionExpression))
	assert.Equal(t, "thumbnail_url", up.ExpressionAttributeNames["#thumbnail_url"])
	assert.Equal(t, thumb, up.ExpressionAttributeValues[":thumbnail_url"].(*types.AttributeValueMemberS).Value)
	assert.Equal(t, "01J", up.Key["id"].(*types.AttributeValueMemberS).Value)
}

func TestUpdateShowcaseUnknownID(t *testing.T) {
	db := &fakeDynamo{updateErr: &types.ConditionalCheckFailedException{Message: aws.String("failed")}}
	thumb := "x"

	err := newRepo(db).UpdateShowcase(context.Background(), "nope", models.ShowcasePatch{ThumbnailURL: &thumb})
	assert.ErrorIs(t, err, ErrCatalogWrite)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListPublished(t *testing.T) {
	db := &fakeDynamo{pages: [][]map[string]types.AttributeValue{
		{
			item(t, models.Showcase{ID: "3", Title: "c", Status: models.StatusPublished}),
			item(t, models.Showcase{ID: "2", Title: "b", Status: models.StatusPublished}),
		},
		{
			item(t, models.Showcase{ID: "1", Title: "a", Status: models.StatusPublished}),
		},
	}}
	r := newRepo(db)

	all, err := r.CollectPublished(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"3", "2", "1"}, []string{all[0].ID, all[1].ID, all[2].ID})

	q := db.queries[0]
	assert.Equal(t, "status-created_at-index", aws.ToString(q.IndexName))
	assert.False(t, aws.ToBool(q.ScanIndexForward))
	assert.Equal(t, "published", q.ExpressionAttributeValues[":st"].(*types.AttributeValueMemberS).Value)
	assert.Len(t, db.queries, 2, "two pages fetched")
}

func TestListPublishedIsLazyAndRestartable(t *testing.T) {
	db := &fakeDynamo{pages: [][]map[string]types.AttributeValue{
		{item(t, models.Showcase{ID: "2"})},
		{item(t, models.Showcase{ID: "1"})},
	}}
	seq := newRepo(db).ListPublished(context.Background(), 0)
	assert.Empty(t, db.queries, "nothing runs before ranging")

	for rec, err := range seq {
		require.NoError(t, err)
		assert.Equal(t, "2", rec.ID)
		break
	}
	assert.Len(t, db.queries, 1, "second page never requested")

	n := 0
	for _, err := range seq {
		require.NoError(t, err)
		n++
	}
	assert.Equal(t, 2, n)
	assert.Len(t, db.queries, 3, "ranging again re-executes the query")
}

func TestListPublishedLimit(t *testing.T) {
	db := &fakeDynamo{pages: [][]map[string]types.AttributeValue{
		{item(t, models.Showcase{ID: "3"}), item(t, models.Showcase{ID: "2"}), item(t, models.Showcase{ID: "1"})},
	}}
	got, err := newRepo(db).CollectPublished(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.EqualValues(t, 2, aws.ToInt32(db.queries[0].Limit))
}

func TestListPublishedReadFailure(t *testing.T) {
	db := &fakeDynamo{queryErr: errors.New("network")}
	var errs []error
	for _, err := range newRepo(db).ListPublished(context.Background(), 10) {
		errs = append(errs, err)
	}
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrCatalogRead)
}

func TestPutApplication(t *testing.T) {
	db := &fakeDynamo{}
	r := &Repo{DB: db, Table: "applications", Now: func() time.Time { return fixedNow }}

	require.NoError(t, r.PutApplication(context.Background(), models.Application{ID: "a1", StudentName: "Mira"}))
	var got models.Application
	require.NoError(t, attributevalue.UnmarshalMap(db.puts[0].Item, &got))
	assert.Equal(t, models.StatusNew, got.Status)
	assert.Equal(t, "2024-08-01T09:30:00.000Z", got.SubmittedAt)
	assert.Equal(t, "applications", aws.ToString(db.puts[0].TableName))
}

func TestIsReady(t *testing.T) {
	assert.NoError(t, newRepo(&fakeDynamo{}).IsReady(context.Background()))
	r := &Repo{DB: &fakeDynamo{}, Table: "missing"}
	assert.Error(t, r.IsReady(context.Background()))
	assert.Equal(t, "Catalog[missing]", r.Name())
}

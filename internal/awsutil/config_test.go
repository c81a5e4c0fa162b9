package awsutil

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSecrets struct {
	values map[string]string
	asked  []string
}

func (f *fakeSecrets) GetSecretValue(_ context.Context, in *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	f.asked = append(f.asked, aws.ToString(in.SecretId))
	v, ok := f.values[aws.ToString(in.SecretId)]
	if !ok {
		return nil, errors.New("ResourceNotFoundException")
	}
	return &secretsmanager.GetSecretValueOutput{SecretString: aws.String(v)}, nil
}

func TestSecret(t *testing.T) {
	sm := &fakeSecrets{values: map[string]string{
		"telegram-bot-token": "123:abc\n",
		"blank":              "  ",
	}}

	got, err := Secret(context.Background(), sm, "telegram-bot-token")
	require.NoError(t, err)
	assert.Equal(t, "123:abc", got)

	_, err = Secret(context.Background(), sm, "blank")
	assert.Error(t, err)

	_, err = Secret(context.Background(), sm, "missing")
	assert.ErrorContains(t, err, "get secret missing")
}

func TestResolveTokenPrefersExplicitToken(t *testing.T) {
	got, err := ResolveToken(context.Background(), aws.Config{}, "explicit", "ignored")
	require.NoError(t, err)
	assert.Equal(t, "explicit", got)

	_, err = ResolveToken(context.Background(), aws.Config{}, "", "")
	assert.Error(t, err)
}

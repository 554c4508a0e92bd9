package validator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loginPayload struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
}

func TestStructValid(t *testing.T) {
	payload := loginPayload{Email: "alice@example.com", Password: "correct-horse"}
	assert.NoError(t, Validate.Struct(payload))
}

func TestStructInvalid(t *testing.T) {
	payload := loginPayload{Email: "not-an-email", Password: "short"}
	err := Validate.Struct(payload)
	require.Error(t, err)

	// 翻译后的消息里两个失败字段都应出现
	assert.Contains(t, err.Error(), "Email")
	assert.Contains(t, err.Error(), "Password")
}

func TestStructCtx(t *testing.T) {
	payload := loginPayload{Email: "alice@example.com", Password: "correct-horse"}
	assert.NoError(t, Validate.StructCtx(context.Background(), payload))
}

func TestStructNil(t *testing.T) {
	assert.Error(t, Validate.Struct(nil))
	assert.Error(t, Validate.StructCtx(context.Background(), nil))
}

func TestNewIndependentInstance(t *testing.T) {
	v := New()
	require.NotNil(t, v)
	assert.NotSame(t, Validate.GetValidator(), v.GetValidator())
}

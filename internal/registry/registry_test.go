package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleInput struct {
	Value string `hcl:"value"`
}

func sampleHandler(ctx context.Context, input *sampleInput) (any, error) {
	return input.Value, nil
}

func TestRegisterRunner_AndLookup(t *testing.T) {
	reg := New()
	reg.RegisterRunner("sample", &RegisteredRunner{
		NewInput: func() any { return new(sampleInput) },
		Fn:       sampleHandler,
	})

	handler, ok := reg.Handler("sample")
	require.True(t, ok)
	assert.NotNil(t, handler.Fn)

	_, ok = reg.Handler("missing")
	assert.False(t, ok)
}

func TestRegisterRunner_DuplicatePanics(t *testing.T) {
	reg := New()
	runner := &RegisteredRunner{Fn: sampleHandler}
	reg.RegisterRunner("sample", runner)

	assert.PanicsWithValue(t, `runner "sample" already registered`, func() {
		reg.RegisterRunner("sample", runner)
	})
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		handler *RegisteredRunner
		wantErr string
	}{
		{
			name: "valid handler",
			handler: &RegisteredRunner{
				NewInput: func() any { return new(sampleInput) },
				Fn:       sampleHandler,
			},
		},
		{
			name:    "not a function",
			handler: &RegisteredRunner{Fn: "nope"},
			wantErr: "handler is not a function",
		},
		{
			name: "wrong arity",
			handler: &RegisteredRunner{
				Fn: func(ctx context.Context) (any, error) { return nil, nil },
			},
			wantErr: "must be func(ctx, input) (value, error)",
		},
		{
			name: "context not first",
			handler: &RegisteredRunner{
				Fn: func(s string, input *sampleInput) (any, error) { return nil, nil },
			},
			wantErr: "first parameter must be context.Context",
		},
		{
			name: "second return not error",
			handler: &RegisteredRunner{
				Fn: func(ctx context.Context, input *sampleInput) (any, string) { return nil, "" },
			},
			wantErr: "second return value must be error",
		},
		{
			name: "input type mismatch",
			handler: &RegisteredRunner{
				NewInput: func() any { return new(struct{ Other int }) },
				Fn:       sampleHandler,
			},
			wantErr: "NewInput returns",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			reg := New()
			reg.RegisterRunner("sample", tc.handler)

			err := reg.Validate(context.Background())
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

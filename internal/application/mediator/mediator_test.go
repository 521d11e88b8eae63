package mediator_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/amalgam-go/internal/application/mediator"
)

type pingQuery struct{ Value string }

type pingHandler struct{}

func (pingHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	return "pong:" + request.(*pingQuery).Value, nil
}

func TestMediator_SendDispatchesByType(t *testing.T) {
	med := mediator.NewMediator()
	require.NoError(t, mediator.RegisterHandler[*pingQuery](med, pingHandler{}))

	resp, err := med.Send(context.Background(), &pingQuery{Value: "a"})

	require.NoError(t, err)
	assert.Equal(t, "pong:a", resp)
}

func TestMediator_DuplicateRegistrationFails(t *testing.T) {
	med := mediator.NewMediator()
	require.NoError(t, mediator.RegisterHandler[*pingQuery](med, pingHandler{}))

	err := mediator.RegisterHandler[*pingQuery](med, pingHandler{})

	assert.Error(t, err)
}

func TestMediator_UnknownRequestFails(t *testing.T) {
	med := mediator.NewMediator()

	_, err := med.Send(context.Background(), &pingQuery{})

	assert.ErrorContains(t, err, "no handler registered")
}

func TestMediator_NilRequestFails(t *testing.T) {
	med := mediator.NewMediator()

	_, err := med.Send(context.Background(), nil)

	assert.Error(t, err)
}

func TestMediator_MiddlewareRunsInRegistrationOrder(t *testing.T) {
	med := mediator.NewMediator()
	require.NoError(t, mediator.RegisterHandler[*pingQuery](med, pingHandler{}))

	var calls []string
	trace := func(name string) mediator.Middleware {
		return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
			calls = append(calls, name+":before")
			resp, err := next(ctx, request)
			calls = append(calls, name+":after")
			return resp, err
		}
	}
	med.RegisterMiddleware(trace("outer"))
	med.RegisterMiddleware(trace("inner"))

	resp, err := med.Send(context.Background(), &pingQuery{Value: "b"})

	require.NoError(t, err)
	assert.Equal(t, "pong:b", resp)
	assert.Equal(t, []string{"outer:before", "inner:before", "inner:after", "outer:after"}, calls)
}

package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"ratehub/internal/domain/repository"
	mockRepo "ratehub/internal/mocks/repository"

	"github.com/stretchr/testify/mock"
)

// testLogger returns a logger that discards everything.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// passthroughTxManager returns a TransactionManager mock whose Execute invokes
// the transactional function with the given repository factory, committing
// when the function succeeds and surfacing its error otherwise.
func passthroughTxManager(t *testing.T, factory repository.RepositoryFactory) *mockRepo.MockTransactionManager {
	t.Helper()

	txManager := mockRepo.NewMockTransactionManager(t)
	txManager.EXPECT().
		Execute(mock.Anything, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(_ context.Context, fn func(repository.RepositoryFactory) error) error {
			return fn(factory)
		})

	return txManager
}

package task

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitReturnsResult(t *testing.T) {
	tk := Go(context.Background(), func(ctx context.Context) (int, error) {
		return 42, nil
	})
	v, err := tk.Wait()
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	select {
	case <-tk.Done():
	default:
		t.Fatal("Done should be closed after Wait")
	}
}

func TestWaitReturnsError(t *testing.T) {
	boom := errors.New("boom")
	tk := Go(context.Background(), func(ctx context.Context) (string, error) {
		return "", boom
	})
	_, err := tk.Wait()
	assert.ErrorIs(t, err, boom)
}

func TestCancelStopsFn(t *testing.T) {
	started := make(chan struct{})
	tk := Go(context.Background(), func(ctx context.Context) (int, error) {
		close(started)
		<-ctx.Done()
		return 0, ctx.Err()
	})
	<-started
	tk.Cancel()
	tk.Cancel()

	select {
	case <-tk.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("task did not stop after Cancel")
	}
	_, err := tk.Wait()
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCancelReportedWhenFnIgnoresIt(t *testing.T) {
	release := make(chan struct{})
	tk := Go(context.Background(), func(ctx context.Context) (int, error) {
		<-release
		return 7, nil
	})
	tk.Cancel()
	close(release)
	_, err := tk.Wait()
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParentCancellation(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	tk := Go(parent, func(ctx context.Context) (int, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	})
	cancel()
	_, err := tk.Wait()
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCancelAfterCompletion(t *testing.T) {
	tk := Go(context.Background(), func(ctx context.Context) (int, error) { return 1, nil })
	v, err := tk.Wait()
	require.NoError(t, err)
	tk.Cancel()
	assert.Equal(t, 1, v)
}

package tasks_test

import (
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courtside/models"
	"courtside/services/tasks"
)

func TestEmailTask(t *testing.T) {
	in := models.EmailPayload{To: "sam@example.com", Subject: "Receipt", HTML: "<p>hi</p>"}

	task, err := tasks.NewEmailTask(in)
	require.NoError(t, err)
	assert.Equal(t, tasks.TypeSendEmail, task.Type())

	out, err := tasks.ParseEmailTask(task)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestParseEmailTask_Rejects(t *testing.T) {
	_, err := tasks.ParseEmailTask(asynq.NewTask(tasks.TypeSendEmail, []byte("{")))
	assert.Error(t, err)

	_, err = tasks.ParseEmailTask(asynq.NewTask(tasks.TypeSendEmail, []byte(`{"subject":"x"}`)))
	assert.Error(t, err)
}

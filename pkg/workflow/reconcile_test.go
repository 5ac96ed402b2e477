package workflow_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"

	"github.com/kempshot/rmes-client/pkg/api"
	"github.com/kempshot/rmes-client/pkg/cache"
	"github.com/kempshot/rmes-client/pkg/workflow"
	"github.com/stretchr/testify/assert"
)

// fakeBackend is a minimal in-memory task service for round-trip tests.
type fakeBackend struct {
	mu    sync.Mutex
	tasks map[int]api.Task
}

func (b *fakeBackend) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()

		if r.URL.Path == "/fetch-tasks" {
			tasks := make([]api.Task, 0, len(b.tasks))
			for _, task := range b.tasks {
				tasks = append(tasks, task)
			}

			sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })

			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(tasks)

			return
		}

		var taskID int
		if _, err := fmt.Sscanf(r.URL.Path, "/update-status/%d", &taskID); err != nil {
			w.WriteHeader(http.StatusNotFound)

			return
		}

		var body struct {
			NewStatus string `json:"new_status"`
		}

		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)

			return
		}

		task, ok := b.tasks[taskID]
		if !ok {
			w.WriteHeader(http.StatusNotFound)

			return
		}

		// the server normalizes the stored value; the client must reflect
		// this, not its own optimistic guess
		task.Status = body.NewStatus + " (verified)"
		b.tasks[taskID] = task

		w.WriteHeader(http.StatusOK)
	})
}

func TestUpdateReconcilesCacheWithServerTruth(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	backend := &fakeBackend{tasks: map[int]api.Task{
		7: {ID: 7, NameOfStaff: "Amy", Title: "inventory", Status: api.StatusInProgress},
	}}

	server := httptest.NewServer(backend.handler())
	defer server.Close()

	client := api.NewClient(server.URL)
	store := cache.NewStore("tasks", client.FetchTasks)
	store.Bind("Amy")

	assert.Nil(store.Load(context.Background()))

	flow := workflow.New(client, store.Load)

	task := store.Records()[0]
	assert.Nil(flow.SelectTask(task))
	assert.Nil(flow.ChooseStatus(api.StatusDone))
	assert.Nil(flow.Submit(context.Background()))

	// the cache holds what the server said, not the client-side guess
	records := store.Records()
	assert.Len(records, 1)
	assert.Equal("Done (verified)", records[0].Status)
	assert.Equal(workflow.Idle, flow.State())
}

func TestFailedUpdateLeavesCacheUntouched(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	backend := &fakeBackend{tasks: map[int]api.Task{
		7: {ID: 7, NameOfStaff: "Amy", Title: "inventory", Status: api.StatusInProgress},
	}}

	server := httptest.NewServer(backend.handler())
	defer server.Close()

	client := api.NewClient(server.URL)
	store := cache.NewStore("tasks", client.FetchTasks)
	store.Bind("Amy")

	assert.Nil(store.Load(context.Background()))

	flow := workflow.New(client, store.Load)

	// select a task the server no longer has
	assert.Nil(flow.SelectTask(api.Task{ID: 99, NameOfStaff: "Amy", Status: api.StatusInProgress}))
	assert.Nil(flow.ChooseStatus(api.StatusDone))

	err := flow.Submit(context.Background())
	assert.ErrorIs(err, api.ErrUpdate)

	// retry is possible and the snapshot was not touched
	assert.Equal(workflow.StatusChosen, flow.State())
	assert.Equal(api.StatusInProgress, store.Records()[0].Status)
}

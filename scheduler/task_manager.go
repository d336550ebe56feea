package scheduler

import (
	"log"
	"sync"
	"time"

	"pricetrack/models"
)

// RefreshFunc performs one synchronous product refresh
type RefreshFunc func(productID int) (*models.ProductSnapshot, error)

// TaskManager runs async product refreshes on a bounded worker pool
type TaskManager struct {
	tasks       map[string]*models.RefreshTask
	taskQueue   chan *models.RefreshTask
	refreshFunc RefreshFunc
	mutex       sync.RWMutex
	stopChan    chan struct{}
	stopOnce    sync.Once
}

// NewTaskManager creates a task manager with the given number of workers
func NewTaskManager(refreshFunc RefreshFunc, maxWorkers int) *TaskManager {
	tm := &TaskManager{
		tasks:       make(map[string]*models.RefreshTask),
		taskQueue:   make(chan *models.RefreshTask, 100),
		refreshFunc: refreshFunc,
		stopChan:    make(chan struct{}),
	}

	for i := 0; i < maxWorkers; i++ {
		go tm.worker()
	}
	go tm.cleanupLoop()

	log.Printf("🚀 Task manager started with %d workers", maxWorkers)
	return tm
}

// SubmitTask queues a new refresh task for a product
func (tm *TaskManager) SubmitTask(productID int) *models.RefreshTask {
	task := models.NewRefreshTask(productID)

	tm.mutex.Lock()
	tm.tasks[task.ID] = task
	tm.mutex.Unlock()

	select {
	case tm.taskQueue <- task:
		log.Printf("📝 Task %s submitted for product %d", task.ID, productID)
	default:
		task.Fail("Task queue is full")
		log.Printf("❌ Failed to submit task %s - queue full", task.ID)
	}

	return task
}

// GetTask returns a task by ID
func (tm *TaskManager) GetTask(taskID string) (*models.RefreshTask, bool) {
	tm.mutex.RLock()
	defer tm.mutex.RUnlock()

	task, exists := tm.tasks[taskID]
	return task, exists
}

// Stats returns task counts by status plus queue depth
func (tm *TaskManager) Stats() map[string]interface{} {
	tm.mutex.RLock()
	defer tm.mutex.RUnlock()

	statusCounts := make(map[string]int)
	for _, task := range tm.tasks {
		statusCounts[string(task.Status)]++
	}

	return map[string]interface{}{
		"total_tasks":     len(tm.tasks),
		"queue_size":      len(tm.taskQueue),
		"tasks_by_status": statusCounts,
	}
}

// Stop stops the workers
func (tm *TaskManager) Stop() {
	tm.stopOnce.Do(func() {
		close(tm.stopChan)
		log.Println("🛑 Task manager stopping...")
	})
}

// worker pulls tasks off the queue until the manager stops
func (tm *TaskManager) worker() {
	for {
		select {
		case task := <-tm.taskQueue:
			tm.process(task)
		case <-tm.stopChan:
			return
		}
	}
}

// process runs one refresh task to completion
func (tm *TaskManager) process(task *models.RefreshTask) {
	task.Start()

	snapshot, err := tm.refreshFunc(task.ProductID)
	if err != nil {
		task.Fail(err.Error())
		log.Printf("❌ Task %s failed: %v", task.ID, err)
		return
	}

	task.Complete(snapshot)
	log.Printf("✅ Task %s completed in %v", task.ID, task.Duration())
}

// cleanupLoop drops completed tasks older than an hour
func (tm *TaskManager) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			tm.cleanupOldTasks(1 * time.Hour)
		case <-tm.stopChan:
			return
		}
	}
}

func (tm *TaskManager) cleanupOldTasks(maxAge time.Duration) {
	tm.mutex.Lock()
	defer tm.mutex.Unlock()

	cutoff := time.Now().Add(-maxAge)
	for taskID, task := range tm.tasks {
		if task.IsCompleted() && task.CreatedAt.Before(cutoff) {
			delete(tm.tasks, taskID)
		}
	}
}

package task

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tendeko/closer/src/utils/config"

	"github.com/stretchr/testify/suite"
)

func TestTaskSuite(t *testing.T) {
	suite.Run(t, new(TaskSuite))
}

type TaskSuite struct {
	suite.Suite

	config *config.Config
}

func (self *TaskSuite) SetupTest() {
	self.config = config.Default()
	self.config.StopTimeout = 2 * time.Second
}

func (self *TaskSuite) TestPeriodicSubtask() {
	var counter atomic.Int64

	task := NewTask(self.config, "periodic-test").
		WithPeriodicSubtaskFunc(10*time.Millisecond, func() error {
			counter.Add(1)
			return nil
		})

	self.NoError(task.Start())
	time.Sleep(100 * time.Millisecond)
	task.StopWait()

	self.GreaterOrEqual(counter.Load(), int64(2))
}

func (self *TaskSuite) TestRepeatedSubtaskRunsUntilDrained() {
	var counter atomic.Int64

	task := NewTask(self.config, "repeated-test").
		WithRepeatedSubtaskFunc(time.Hour, func() (repeat bool, err error) {
			return counter.Add(1) < 3, nil
		})

	self.NoError(task.Start())
	time.Sleep(100 * time.Millisecond)

	self.Equal(int64(3), counter.Load())

	task.StopWait()
}

func (self *TaskSuite) TestOnBeforeStartError() {
	expected := errors.New("init failed")

	task := NewTask(self.config, "failing-test").
		WithOnBeforeStart(func() error {
			return expected
		})

	err := task.Start()
	self.ErrorIs(err, expected)
}

func (self *TaskSuite) TestOnStopCallbacks() {
	var stopped atomic.Bool

	task := NewTask(self.config, "stop-test").
		WithSubtaskFunc(func() error {
			<-make(chan struct{})
			return nil
		}).
		WithOnStop(func() {
			stopped.Store(true)
		})

	self.NoError(task.Start())
	task.Stop()

	self.True(stopped.Load())
}

func (self *TaskSuite) TestSubtaskStopPropagates() {
	child := NewTask(self.config, "child-test").
		WithPeriodicSubtaskFunc(10*time.Millisecond, func() error {
			return nil
		})

	parent := NewTask(self.config, "parent-test").
		WithSubtask(child)

	self.NoError(parent.Start())
	time.Sleep(30 * time.Millisecond)
	parent.StopWait()

	select {
	case <-child.CtxRunning.Done():
	default:
		self.Fail("child task still running")
	}
}

func (self *TaskSuite) TestRetrySucceedsAfterFailures() {
	var attempts atomic.Int64

	err := NewRetry().
		WithMaxElapsedTime(5 * time.Second).
		WithMaxInterval(10 * time.Millisecond).
		Run(func() error {
			if attempts.Add(1) < 3 {
				return errors.New("transient")
			}
			return nil
		})

	self.NoError(err)
	self.Equal(int64(3), attempts.Load())
}

func (self *TaskSuite) TestHoleFlushesFullBatches() {
	input := make(chan int, 8)
	batches := make(chan []int, 8)

	hole := NewHole[int](self.config, "hole-test").
		WithBatchSize(2).
		WithOnFlush(time.Hour, func(batch []int) error {
			if len(batch) > 0 {
				batches <- batch
			}
			return nil
		}).
		WithBackoff(time.Second, 100*time.Millisecond).
		WithInputChannel(input)

	self.NoError(hole.Start())

	input <- 1
	input <- 2

	select {
	case batch := <-batches:
		self.Equal([]int{1, 2}, batch)
	case <-time.After(time.Second):
		self.Fail("batch not flushed")
	}

	// Closing the input flushes the remainder
	input <- 3
	close(input)

	select {
	case batch := <-batches:
		self.Equal([]int{3}, batch)
	case <-time.After(time.Second):
		self.Fail("final batch not flushed")
	}

	hole.StopWait()
}

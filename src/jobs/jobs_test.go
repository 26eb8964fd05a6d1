package jobs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func slowJob(name string, workAfterCancel time.Duration) *Job {
	job := New(name)
	go func() {
		<-job.Canceled()
		time.Sleep(workAfterCancel)
		job.Finish()
	}()
	return job
}

func TestCancelAndWait(t *testing.T) {
	t.Run("all jobs finish before the deadline", func(t *testing.T) {
		testJobs := Jobs{
			slowJob("sweep", time.Millisecond*50),
			slowJob("backup", time.Millisecond*100),
		}

		before := time.Now()
		unfinished := testJobs.CancelAndWait(time.Second)
		assert.WithinDuration(t, time.Now(), before, time.Millisecond*500)
		assert.Len(t, unfinished, 0)
	})
	t.Run("stragglers get reported", func(t *testing.T) {
		testJobs := Jobs{
			slowJob("sweep", time.Millisecond*50),
			slowJob("backup", time.Second*10),
		}

		unfinished := testJobs.CancelAndWait(time.Millisecond * 300)
		assert.Equal(t, []string{"backup"}, unfinished)
	})
}

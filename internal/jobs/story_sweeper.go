package jobs

import (
	"context"
	"log"
	"time"

	"github.com/3w-social/backend/internal/services"
)

// StorySweeper runs the idempotent bulk story expiry on a schedule, so stale
// entries disappear even for users nobody ever fetches.
type StorySweeper struct {
	stories *services.StoryService
	ticker  *time.Ticker
	done    chan bool
}

// NewStorySweeper creates a new story sweeper job
func NewStorySweeper(storyService *services.StoryService, interval time.Duration) *StorySweeper {
	return &StorySweeper{
		stories: storyService,
		ticker:  time.NewTicker(interval),
		done:    make(chan bool),
	}
}

// Start begins the sweep loop
func (j *StorySweeper) Start() {
	log.Println("Story sweeper started")

	go func() {
		// Run immediately on start
		j.sweep()

		for {
			select {
			case <-j.ticker.C:
				j.sweep()
			case <-j.done:
				log.Println("Story sweeper stopped")
				return
			}
		}
	}()
}

// Stop stops the sweep loop
func (j *StorySweeper) Stop() {
	j.ticker.Stop()
	j.done <- true
}

func (j *StorySweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := j.stories.ExpireNow(ctx); err != nil {
		log.Printf("Error during story sweep: %v\n", err)
	}
}

package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/citizenjaivik/jaivik/app/jobs"
	"github.com/citizenjaivik/jaivik/app/models"
	"github.com/citizenjaivik/jaivik/app/services"
	"github.com/citizenjaivik/jaivik/config"
	"github.com/citizenjaivik/jaivik/pkg/database"
	"github.com/citizenjaivik/jaivik/pkg/kv"
	"github.com/citizenjaivik/jaivik/pkg/logger"
	"github.com/citizenjaivik/jaivik/pkg/queue"
	"github.com/citizenjaivik/jaivik/pkg/schedule"
)

var queueWorkersFlag int

// bootWorkers loads config and connects the stores the workers depend on.
func bootWorkers() error {
	if err := config.Load(); err != nil {
		return err
	}
	if r, err := kv.Connect(); err == nil {
		kv.SetDefault(r)
		queue.SetDriver(queue.NewRedisDriver(r.Client()))
	} else {
		logger.Warn("workers: redis unreachable, using in-process queue", "error", err)
	}
	if err := database.Connect(); err == nil {
		queue.UseDB(database.DB)
	}
	return nil
}

// jaivik queue:work
var queueWorkCmd = &cobra.Command{
	Use:   "queue:work",
	Short: "Start the queue workers",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootWorkers(); err != nil {
			return err
		}
		jobs.RegisterAll()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		workers := queueWorkersFlag
		if workers < 1 {
			workers = 5
		}

		fmt.Printf("Queue worker started (%d workers). Press Ctrl+C to stop.\n", workers)
		queue.StartWorkers(ctx, workers)

		<-ctx.Done()
		fmt.Println("Queue worker stopped.")
		return nil
	},
}

// jaivik schedule:run runs the feedback sweep loop standalone.
var scheduleRunCmd = &cobra.Command{
	Use:   "schedule:run",
	Short: "Start the task scheduler",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootWorkers(); err != nil {
			return err
		}

		// Standalone sweeps have no websocket hub; reminders flip to shown
		// in the store and the app picks them up from the pending endpoint.
		feedback := services.NewFeedbackService(kv.Default(), services.PrompterFunc(
			func(subject string, n models.FeedbackNotification) {
				logger.Info("feedback: reminder due", "subject", subject, "order", n.OrderID)
			},
		))
		schedule.Interval(config.FeedbackCheckInterval()).
			Name("feedback:sweep").
			WithoutOverlapping().
			Run(feedback.SweepAll)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		tasks := schedule.List()
		if len(tasks) == 0 {
			fmt.Println("No scheduled tasks registered.")
		} else {
			fmt.Println("Registered scheduled tasks:")
			for _, t := range tasks {
				fmt.Println("  -", t)
			}
		}

		fmt.Println("Scheduler started. Press Ctrl+C to stop.")
		schedule.Start(ctx)

		<-ctx.Done()
		fmt.Println("Scheduler stopped.")
		return nil
	},
}

func init() {
	queueWorkCmd.Flags().IntVarP(&queueWorkersFlag, "workers", "w", 5, "Number of concurrent workers")
}

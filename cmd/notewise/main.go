// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/poiesic/notewise"
	"github.com/poiesic/notewise/core"
	"github.com/poiesic/notewise/fingerprint/remote"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:   "notewise",
		Usage:  "Local note intelligence: search, graph, tasks, and digests",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "add",
				Usage:  "Add a note and run it through the enrichment pipeline",
				Action: addCommand,
				Flags: append(engineFlags(),
					&cli.StringFlag{
						Name:     "title",
						Aliases:  []string{"t"},
						Usage:    "Note title",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "content",
						Aliases: []string{"c"},
						Usage:   "Note content (reads stdin when omitted)",
					},
					&cli.StringSliceFlag{
						Name:  "tag",
						Usage: "Tag to attach (repeatable)",
					},
				),
			},
			{
				Name:      "search",
				Usage:     "Search notes by semantic similarity",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: append(engineFlags(),
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of results",
						Value: 10,
					},
				),
			},
			{
				Name:      "related",
				Usage:     "Show notes related to a note",
				ArgsUsage: "<note-id>",
				Action:    relatedCommand,
				Flags:     engineFlags(),
			},
			{
				Name:   "graph",
				Usage:  "Rebuild the relationship graph",
				Action: graphCommand,
				Flags:  engineFlags(),
			},
			{
				Name:   "cluster",
				Usage:  "Group notes into topic clusters",
				Action: clusterCommand,
				Flags:  engineFlags(),
			},
			{
				Name:   "tasks",
				Usage:  "List open tasks",
				Action: tasksCommand,
				Flags: append(engineFlags(),
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Include completed tasks",
					},
					&cli.Uint64Flag{
						Name:  "complete",
						Usage: "Mark the task with this ID as completed",
					},
				),
			},
			{
				Name:   "digest",
				Usage:  "Show the daily digest or weekly summary",
				Action: digestCommand,
				Flags: append(engineFlags(),
					&cli.StringFlag{
						Name:  "date",
						Usage: "Digest date (YYYY-MM-DD, defaults to today)",
					},
					&cli.BoolFlag{
						Name:  "weekly",
						Usage: "Show the weekly summary ending at the date",
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// engineFlags returns the flags shared by every command that opens the
// engine.
func engineFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to BadgerDB database directory",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "fingerprint-host",
			Usage: "Remote fingerprint service host URL (uses the local generator when omitted)",
		},
		&cli.StringFlag{
			Name:  "fingerprint-model",
			Usage: "Remote fingerprint model name",
		},
	}
}

// openEngine opens the engine for a command, selecting the remote
// generator when a fingerprint host is configured.
func openEngine(c *cli.Context) (*notewise.Engine, error) {
	var opts []notewise.EngineOption

	if host := c.String("fingerprint-host"); host != "" {
		config := remote.DefaultConfig()
		config.Host = host
		config.Model = c.String("fingerprint-model")
		generator, err := remote.NewGenerator(config)
		if err != nil {
			return nil, fmt.Errorf("failed to create remote generator: %w", err)
		}
		opts = append(opts, notewise.WithGenerator(generator))
	}

	engine, err := notewise.NewEngine(c.String("db"), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return engine, nil
}

func addCommand(c *cli.Context) error {
	ctx := context.Background()

	content := c.String("content")
	if content == "" {
		data, err := os.ReadFile("/dev/stdin")
		if err != nil {
			return fmt.Errorf("failed to read content from stdin: %w", err)
		}
		content = string(data)
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	pipe, err := engine.NewPipeline()
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer pipe.Release()

	note := &core.Note{
		Title:   c.String("title"),
		Content: content,
		Tags:    c.StringSlice("tag"),
	}
	if err := core.ValidateNote(note); err != nil {
		return err
	}

	added, err := pipe.IngestNotes(ctx, note)
	if err != nil {
		return fmt.Errorf("failed to add note: %w", err)
	}

	// Let the async enrichment finish before the process exits
	time.Sleep(500 * time.Millisecond)

	fmt.Printf("Added note %d: %s\n", added[0].Id, added[0].Title)
	return nil
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("search query is required")
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	results, err := engine.Search(ctx, query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	limit := c.Int("limit")
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	if len(results) == 0 {
		fmt.Println("No matching notes.")
		return nil
	}
	for _, result := range results {
		fmt.Printf("%6.3f  [%d] %s\n", result.Score, result.Note.Id, result.Note.Title)
	}
	return nil
}

func relatedCommand(c *cli.Context) error {
	ctx := context.Background()

	var noteId core.ID
	if _, err := fmt.Sscanf(c.Args().First(), "%d", &noteId); err != nil {
		return fmt.Errorf("note ID is required")
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	related, err := engine.Related(ctx, noteId)
	if err != nil {
		return fmt.Errorf("failed to find related notes: %w", err)
	}

	if len(related) == 0 {
		fmt.Println("No related notes.")
		return nil
	}
	for _, result := range related {
		fmt.Printf("%6.3f  [%d] %s\n", result.Score, result.Note.Id, result.Note.Title)
	}
	return nil
}

func graphCommand(c *cli.Context) error {
	ctx := context.Background()

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	edges, err := engine.BuildGraph(ctx)
	if err != nil {
		return fmt.Errorf("graph build failed: %w", err)
	}

	fmt.Printf("Graph rebuilt: %d edges\n", len(edges))
	for _, edge := range edges {
		fmt.Printf("%6.3f  %d <-> %d\n", edge.Strength, edge.SourceId, edge.TargetId)
	}
	return nil
}

func clusterCommand(c *cli.Context) error {
	ctx := context.Background()

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	clusters, err := engine.ClusterTopics(ctx)
	if err != nil {
		return fmt.Errorf("clustering failed: %w", err)
	}

	for _, cl := range clusters {
		fmt.Printf("%s (%d notes)\n", cl.Label, len(cl.Notes))
		for _, note := range cl.Notes {
			fmt.Printf("  [%d] %s\n", note.Id, note.Title)
		}
	}
	return nil
}

func tasksCommand(c *cli.Context) error {
	ctx := context.Background()

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	if taskId := c.Uint64("complete"); taskId != 0 {
		task, err := engine.CompleteTask(ctx, core.ID(taskId))
		if err != nil {
			return fmt.Errorf("failed to complete task: %w", err)
		}
		fmt.Printf("Completed task %d: %s\n", task.Id, task.Title)
		return nil
	}

	var tasks []*core.Task
	if c.Bool("all") {
		tasks, err = engine.TaskRepository().GetAllTasks(ctx)
	} else {
		tasks, err = engine.TaskRepository().GetOpenTasks(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}

	if len(tasks) == 0 {
		fmt.Println("No tasks.")
		return nil
	}
	for _, task := range tasks {
		status := " "
		if task.Completed {
			status = "x"
		}
		due := ""
		if task.DueDate != nil {
			due = " (due " + core.DateKey(*task.DueDate) + ")"
		}
		fmt.Printf("[%s] %d  %-6s %s%s\n", status, task.Id, task.Priority, task.Title, due)
	}
	return nil
}

func digestCommand(c *cli.Context) error {
	ctx := context.Background()

	date := c.String("date")
	if date == "" {
		date = core.DateKey(time.Now().UTC())
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	if c.Bool("weekly") {
		weekly, err := engine.WeeklySummary(ctx, date)
		if err != nil {
			return fmt.Errorf("failed to build weekly summary: %w", err)
		}
		fmt.Printf("Week ending %s\n", date)
		fmt.Printf("  Notes created:   %d (avg %d/day)\n", weekly.NotesCreated, weekly.AvgNotesPerDay)
		fmt.Printf("  Notes updated:   %d\n", weekly.NotesUpdated)
		fmt.Printf("  Tasks completed: %d (avg %d/day)\n", weekly.TasksCompleted, weekly.AvgTasksPerDay)
		fmt.Printf("  Meetings:        %d\n", weekly.Meetings)
		return nil
	}

	daily, err := engine.DailyDigest(ctx, date)
	if err != nil {
		return fmt.Errorf("failed to build digest: %w", err)
	}

	fmt.Printf("%s: %s\n", daily.Date, daily.Summary)
	for _, insight := range daily.Insights {
		fmt.Printf("  - %s\n", insight)
	}
	if len(daily.CreatedNotes) > 0 {
		fmt.Println("Created:")
		for _, note := range daily.CreatedNotes {
			fmt.Printf("  [%d] %s\n", note.Id, note.Title)
		}
	}
	if len(daily.CompletedTasks) > 0 {
		fmt.Println("Completed tasks:")
		for _, task := range daily.CompletedTasks {
			fmt.Printf("  [%d] %s\n", task.Id, task.Title)
		}
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

// Command apikeygen mints a machine-client API key and registers it in
// the credential table. The key is printed once; it is stored as-is and
// checked by exact lookup.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"events-backend/internal/config"
	"events-backend/internal/db"
	"events-backend/internal/utils"

	_ "github.com/lib/pq"
)

func main() {
	agent := flag.String("agent", "", "declared client agent string")
	flag.Parse()

	if *agent == "" {
		fmt.Fprintln(os.Stderr, "usage: apikeygen -agent <client agent string>")
		os.Exit(2)
	}

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	database, err := db.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "apikeygen: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := db.RunMigration(ctx, database); err != nil {
		fmt.Fprintf(os.Stderr, "apikeygen: %v\n", err)
		os.Exit(1)
	}

	key := utils.RandomString(33)

	err = database.InsertAPIUser(ctx, db.APIUser{
		APIKey:    key,
		UserAgent: *agent,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "apikeygen: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(key)
}

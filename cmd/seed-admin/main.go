package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/dodunsoft/billing_backend/appctx"
	"github.com/dodunsoft/billing_backend/config"
	"github.com/dodunsoft/billing_backend/models"
)

// Creates or refreshes a console login. Run once after deploy:
//
//	seed-admin -username admin -name "Admin" -password <secret>
//
// The password may also come from SEED_ADMIN_PASSWORD to keep it out of
// shell history.
func main() {
	username := flag.String("username", "admin", "login username")
	name := flag.String("name", "Administrator", "display name")
	password := flag.String("password", "", "login password (or SEED_ADMIN_PASSWORD)")
	flag.Parse()

	if *password == "" {
		*password = os.Getenv("SEED_ADMIN_PASSWORD")
	}
	if *password == "" {
		fmt.Fprintln(os.Stderr, "seed-admin: password is required (-password or SEED_ADMIN_PASSWORD)")
		os.Exit(2)
	}

	config.ConnectDatabaseWithRetry()
	if err := models.Migrate(config.GetDB()); err != nil {
		fmt.Fprintf(os.Stderr, "seed-admin: migrate: %v\n", err)
		os.Exit(1)
	}

	ctx := appctx.Set(context.Background(), appctx.ContextKeyUsername, "seed-admin")
	user, err := models.UpsertUser(ctx, *username, *name, *password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "seed-admin: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("seeded user %q (id=%d)\n", user.Username, user.ID)
}

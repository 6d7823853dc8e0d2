// Command admin provisions back-office accounts.
//
//	admin -cmd create -email ops@issaq.com -name "Ops" [-role staff] [-password ...]
//	admin -cmd reset-password -email ops@issaq.com -password ...
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/tarekmechtaoui-svg/issaqadmin3/internal/users"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/config"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/db"
	pkgerrors "github.com/tarekmechtaoui-svg/issaqadmin3/pkg/errors"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/logger"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/security"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "admin"})

	_ = godotenv.Load()

	cmd := flag.String("cmd", "create", "command: create|reset-password")
	email := flag.String("email", "", "account email")
	name := flag.String("name", "", "display name (for create)")
	role := flag.String("role", "admin", "account role: admin|staff")
	password := flag.String("password", "", "password; create generates one when empty")
	flag.Parse()

	if *email == "" {
		exitf("missing -email")
	}

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	provisioner := users.NewProvisioner(users.NewRepository(dbClient.DB()), security.NewHasher(cfg.Password))

	switch *cmd {
	case "create":
		user, generated, err := provisioner.Create(ctx, users.ProvisionInput{
			Email:    *email,
			Name:     *name,
			Password: *password,
			Role:     *role,
		})
		if err != nil {
			exitErr(err)
		}
		fmt.Printf("created %s user %s (%s)\n", user.Role, user.Email, user.ID)
		if generated != "" {
			fmt.Println("generated password:", generated)
		}
	case "reset-password":
		if err := provisioner.ResetPassword(ctx, *email, *password); err != nil {
			exitErr(err)
		}
		fmt.Println("password updated for", *email)
	default:
		exitf("unknown -cmd value: %s", *cmd)
	}
}

func exitErr(err error) {
	if typed := pkgerrors.As(err); typed != nil {
		if details, ok := typed.Details().(map[string]string); ok && len(details) > 0 {
			for field, msg := range details {
				fmt.Fprintf(os.Stderr, "  %s: %s\n", field, msg)
			}
		}
	}
	exitf("%v", err)
}

func exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}

package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	database "github.com/sebuszqo/ExpenseTracker/db"
	"github.com/sebuszqo/ExpenseTracker/internal/config"
	"github.com/sebuszqo/ExpenseTracker/internal/finance/application"
	financeErrors "github.com/sebuszqo/ExpenseTracker/internal/finance/errors"
	"github.com/sebuszqo/ExpenseTracker/internal/finance/infrastructure"
	"github.com/sebuszqo/ExpenseTracker/internal/logger"
	"github.com/sebuszqo/ExpenseTracker/internal/user"
	"golang.org/x/term"
)

var defaultCategories = []string{
	"Food & Dining",
	"Transportation",
	"Shopping",
	"Entertainment",
	"Bills & Utilities",
	"Health & Fitness",
	"Travel",
	"Other",
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error seeding database: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	fs.SetOutput(stderr)

	email := fs.String("email", "test@example.com", "Email of the seeded user")
	name := fs.String("name", "Test User", "Name of the seeded user")
	passwordFlag := fs.String("password", "", "Password (falls back to SEED_PASSWORD, then prompts)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := config.Load()
	if cfg.DBConnectionString == "" {
		return fmt.Errorf("DB_CONNECTION_STRING is required")
	}

	password := *passwordFlag
	if password == "" {
		password = os.Getenv("SEED_PASSWORD")
	}
	if password == "" {
		fmt.Fprint(stdout, "Password: ")
		var err error
		password, err = readPassword(stdin)
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(stdout)
	}

	ctx := context.Background()
	dbService, err := database.NewDBService(ctx, cfg.DBConnectionString, logger.Discard())
	if err != nil {
		return err
	}
	defer dbService.Close()

	if err := database.RunMigrations(dbService.DB); err != nil {
		return err
	}

	users := user.NewUserService(user.NewUserRepository(dbService.DB), user.NewBcryptHasher(cfg.BcryptCost))
	categories := application.NewCategoryService(infrastructure.NewCategoryRepository(dbService.DB))

	return seed(ctx, stdout, users, categories, *name, *email, password)
}

// seed creates the user unless it exists, then every default category it is missing.
func seed(ctx context.Context, out io.Writer, users user.Service, categories *application.CategoryService, name, email, password string) error {
	fmt.Fprintln(out, "Seeding database...")

	u, err := users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		fmt.Fprintf(out, "Using existing user: %s\n", u.Email)
	case errors.Is(err, user.ErrUserNotFound):
		if strings.TrimSpace(password) == "" {
			return fmt.Errorf("password cannot be empty")
		}
		u, err = users.Register(ctx, name, email, password)
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		fmt.Fprintf(out, "Created user: %s\n", u.Email)
	default:
		return fmt.Errorf("failed to look up user: %w", err)
	}

	for _, categoryName := range defaultCategories {
		_, err := categories.CreateCategory(ctx, u.ID, categoryName)
		switch {
		case err == nil:
			fmt.Fprintf(out, "Created category: %s\n", categoryName)
		case errors.Is(err, financeErrors.ErrCategoryNameTaken):
			fmt.Fprintf(out, "Category already exists: %s\n", categoryName)
		default:
			return fmt.Errorf("failed to create category %q: %w", categoryName, err)
		}
	}

	fmt.Fprintln(out, "Seeding completed!")
	return nil
}

func readPassword(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		bytePassword, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(bytePassword), nil
	}

	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

// Command createuser bootstraps an operator account with one or more roles.
//
//	createuser --name "Admin" --email admin@example.com --role admin --role editor
//
// The password is read from --password or, preferably, USER_PASSWORD.
// Without --role the user becomes an editor.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/iliyamo/travel-api/internal/config"
	"github.com/iliyamo/travel-api/internal/database"
	"github.com/iliyamo/travel-api/internal/logging"
	"github.com/iliyamo/travel-api/internal/model"
	"github.com/iliyamo/travel-api/internal/repository"
	"github.com/iliyamo/travel-api/internal/utils"
)

type userInput struct {
	Name     string `validate:"required,max=255"`
	Email    string `validate:"required,email,max=255"`
	Password string `validate:"required,min=8"`
	Roles    []model.Role
}

func main() {
	_ = godotenv.Load()
	log, sync := logging.New(os.Getenv("APP_ENV"))
	defer func() { _ = sync() }()

	in, err := parseArgs(os.Args[1:], os.Getenv)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := in.validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg, err := config.DatabaseFromEnv(os.LookupEnv)
	if err != nil {
		log.Fatal("config", zap.Error(err))
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.Open(ctx, cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal("database connect failed", zap.Error(err))
	}
	defer db.Close()

	if err := create(ctx, repository.NewUserRepo(db), in, cfg.BcryptCost); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log.Info("user created", zap.String("email", in.Email), zap.Strings("roles", roleNames(in.Roles)))
	fmt.Printf("User %q created successfully!\n", in.Email)
}

// parseArgs reads flags; getenv supplies USER_PASSWORD when --password is
// not given.
func parseArgs(args []string, getenv func(string) string) (userInput, error) {
	fs := pflag.NewFlagSet("createuser", pflag.ContinueOnError)
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "login email")
	password := fs.String("password", "", "password (defaults to $USER_PASSWORD)")
	roles := fs.StringSlice("role", []string{string(model.RoleEditor)}, "role to attach, repeatable: admin, editor")
	if err := fs.Parse(args); err != nil {
		return userInput{}, err
	}

	in := userInput{
		Name:     strings.TrimSpace(*name),
		Email:    strings.TrimSpace(*email),
		Password: *password,
	}
	if in.Password == "" {
		in.Password = getenv("USER_PASSWORD")
	}
	seen := model.NewRoleSet()
	for _, raw := range *roles {
		r, err := model.ParseRole(raw)
		if err != nil {
			return userInput{}, fmt.Errorf("Role not found: %q", raw)
		}
		if !seen.Has(r) {
			seen[r] = struct{}{}
			in.Roles = append(in.Roles, r)
		}
	}
	return in, nil
}

var inputValidator = validator.New(validator.WithRequiredStructEnabled())

func (in userInput) validate() error {
	err := inputValidator.Struct(in)
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("The %s field is required.", field))
		case "email":
			msgs = append(msgs, fmt.Sprintf("The %s field must be a valid email address.", field))
		case "min":
			msgs = append(msgs, fmt.Sprintf("The %s field must be at least %s characters.", field, fe.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("The %s field must not be greater than %s characters.", field, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("The %s field is invalid.", field))
		}
	}
	return errors.New(strings.Join(msgs, "\n"))
}

type userCreator interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	CreateWithRoles(ctx context.Context, u *model.User, roles []model.Role) error
}

func create(ctx context.Context, users userCreator, in userInput, cost int) error {
	taken, err := users.EmailExists(ctx, in.Email)
	if err != nil {
		return err
	}
	if taken {
		return errors.New("The email has already been taken.")
	}
	hash, err := utils.HashPassword(in.Password, cost)
	if err != nil {
		return err
	}
	u := model.User{Name: in.Name, Email: in.Email, PasswordHash: hash}
	if err := users.CreateWithRoles(ctx, &u, in.Roles); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return errors.New("The email has already been taken.")
		}
		return err
	}
	return nil
}

func roleNames(roles []model.Role) []string {
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		out = append(out, string(r))
	}
	return out
}

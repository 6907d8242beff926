package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/atinyakov/restofinder/internal/models"
)

const helpText = `Available commands:
  signup                  create an account
  login                   sign in
  search <mode> <query>   mode is one of name, cuisine, price, ratings
  logout                  sign out
  help                    show this help
  exit                    quit`

// Shell is the interactive command loop of the terminal client.
type Shell struct {
	Client *Client
	Prompt *Prompter
	Out    io.Writer
}

// Run reads commands until "exit", end of input or ctx is done.
func (s *Shell) Run(ctx context.Context) error {
	for ctx.Err() == nil {
		line, err := s.Prompt.Line("restofinder> ")
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}

		switch args[0] {
		case "help":
			fmt.Fprintln(s.Out, helpText)
		case "signup":
			s.signup(ctx)
		case "login":
			s.login(ctx)
		case "logout":
			if err := s.Client.Logout(ctx); err != nil {
				fmt.Fprintf(s.Out, "Logout failed: %v\n", err)
				continue
			}
			fmt.Fprintln(s.Out, "You have been logged out.")
		case "search":
			if len(args) < 2 {
				fmt.Fprintln(s.Out, "Usage: search <mode> <query>")
				continue
			}
			s.search(ctx, args[1], strings.Join(args[2:], " "))
		case "exit":
			fmt.Fprintln(s.Out, "Bye")
			return nil
		default:
			fmt.Fprintln(s.Out, "Unknown command. Type 'help' for a list of commands.")
		}
	}
	return ctx.Err()
}

func (s *Shell) signup(ctx context.Context) {
	name, err := s.Prompt.Line("Name: ")
	if err != nil {
		return
	}
	email, err := s.Prompt.Line("Email: ")
	if err != nil {
		return
	}
	password, err := s.Prompt.Password("Password: ")
	if err != nil {
		return
	}

	_, err = s.Client.Signup(ctx, name, email, password)
	switch {
	case errors.Is(err, ErrEmailTaken):
		fmt.Fprintln(s.Out, "Email already registered. Please login.")
	case err != nil:
		fmt.Fprintf(s.Out, "Signup failed: %v\n", err)
	default:
		fmt.Fprintln(s.Out, "Signup successful! Please login.")
	}
}

func (s *Shell) login(ctx context.Context) {
	email, err := s.Prompt.Line("Email: ")
	if err != nil {
		return
	}
	password, err := s.Prompt.Password("Password: ")
	if err != nil {
		return
	}

	u, err := s.Client.Login(ctx, email, password)
	switch {
	case errors.Is(err, ErrUnauthorized):
		fmt.Fprintln(s.Out, "Invalid credentials. Please try again.")
	case err != nil:
		fmt.Fprintf(s.Out, "Login failed: %v\n", err)
	default:
		fmt.Fprintf(s.Out, "Login successful! Welcome, %s.\n", u.Name)
	}
}

func (s *Shell) search(ctx context.Context, mode, query string) {
	recs, err := s.Client.Search(ctx, query, mode)
	if errors.Is(err, ErrUnauthorized) {
		fmt.Fprintln(s.Out, "Please login first.")
		return
	}
	if err != nil {
		fmt.Fprintf(s.Out, "Search failed: %v\n", err)
		return
	}
	if len(recs) == 0 {
		fmt.Fprintln(s.Out, "No recommendations found.")
		return
	}
	printRecommendations(s.Out, recs)
}

func printRecommendations(out io.Writer, recs []models.Recommendation) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tCUISINE\tPRICE\tRATINGS\tLINK")
	for _, r := range recs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.Name, r.Cuisine, r.Price, r.RatingLabel(), r.Link)
	}
	_ = tw.Flush()
}

// Package main is the terminal client for the pokedex API.
//
// USAGE:
//
//	pokedex [-api URL] <command> [arguments]
//
//	pokedex register -email you@example.com -password secret
//	pokedex login    -email you@example.com -password secret
//	pokedex logout
//	pokedex list     [-search pika] [-threshold 10]
//	pokedex get      <id>
//	pokedex add      -name Pikachu -types Electric [-sprite URL]
//	pokedex update   <id> [-name X] [-types A,B] [-sprite URL]
//	pokedex delete   <id>
//
// The session token from register/login is stored under the user's config
// directory and attached automatically to every later command.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/sakif/pokedex/internal/client"
	"github.com/sakif/pokedex/internal/model"
)

func main() {
	// The -api flag comes before the subcommand so every command shares it.
	apiURL := flag.String("api", "http://localhost:5000", "base URL of the pokedex API")
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	store, err := client.NewTokenStore()
	if err != nil {
		fail(err)
	}
	c := client.New(*apiURL, store)
	ctx := context.Background()

	command, rest := args[0], args[1:]
	switch command {
	case "register":
		err = runRegister(ctx, c, rest)
	case "login":
		err = runLogin(ctx, c, rest)
	case "logout":
		err = c.Logout()
		if err == nil {
			fmt.Println("Logged out.")
		}
	case "list":
		err = runList(ctx, c, rest)
	case "get":
		err = runGet(ctx, c, rest)
	case "add":
		err = runAdd(ctx, c, rest)
	case "update":
		err = runUpdate(ctx, c, rest)
	case "delete":
		err = runDelete(ctx, c, rest)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", command)
		usage()
		os.Exit(2)
	}

	if err != nil {
		fail(err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `pokedex — personal collection tracker

Commands:
  register -email E -password P   create an account and log in
  login    -email E -password P   log in
  logout                          forget the stored session
  list     [-search T] [-threshold N]
  get      <id>
  add      -name N -types A,B [-sprite URL]
  update   <id> [-name N] [-types A,B] [-sprite URL]
  delete   <id>

Flags:
  -api URL   base URL of the API (default http://localhost:5000)`)
}

func fail(err error) {
	if errors.Is(err, client.ErrSessionExpired) {
		fmt.Fprintln(os.Stderr, "Session expired or not logged in. Run `pokedex login` first.")
	} else {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(1)
}

func credentialFlags(name string, args []string) (email, password string, err error) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	e := fs.String("email", "", "account email")
	p := fs.String("password", "", "account password")
	fs.Parse(args)
	if *e == "" || *p == "" {
		return "", "", fmt.Errorf("%s requires -email and -password", name)
	}
	return *e, *p, nil
}

func runRegister(ctx context.Context, c *client.Client, args []string) error {
	email, password, err := credentialFlags("register", args)
	if err != nil {
		return err
	}
	if err := c.Register(ctx, email, password); err != nil {
		return err
	}
	fmt.Println("Registered and logged in as", email)
	return nil
}

func runLogin(ctx context.Context, c *client.Client, args []string) error {
	email, password, err := credentialFlags("login", args)
	if err != nil {
		return err
	}
	if err := c.Login(ctx, email, password); err != nil {
		return err
	}
	fmt.Println("Logged in as", email)
	return nil
}

func runList(ctx context.Context, c *client.Client, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	search := fs.String("search", "", "fuzzy-filter by name")
	threshold := fs.Int("threshold", client.DefaultSearchThreshold, "max edit distance for -search")
	fs.Parse(args)

	pokemon, err := c.List(ctx)
	if err != nil {
		return err
	}

	// Filtering happens here, not on the server — the collection is already
	// in hand and it keeps the API surface small.
	pokemon = client.FilterByName(pokemon, *search, *threshold)

	if len(pokemon) == 0 {
		fmt.Println("No pokemon found.")
		return nil
	}
	for _, p := range pokemon {
		printPokemon(p)
	}
	return nil
}

func runGet(ctx context.Context, c *client.Client, args []string) error {
	if len(args) != 1 {
		return errors.New("get requires exactly one <id> argument")
	}
	p, err := c.Get(ctx, args[0])
	if err != nil {
		return err
	}
	printPokemon(*p)
	return nil
}

func runAdd(ctx context.Context, c *client.Client, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	name := fs.String("name", "", "pokemon name")
	types := fs.String("types", "", "comma-separated type tags")
	sprite := fs.String("sprite", "", "front sprite URL")
	fs.Parse(args)

	if *name == "" || *types == "" {
		return errors.New("add requires -name and -types")
	}

	sprites := map[string]string{}
	if *sprite != "" {
		sprites["front_default"] = *sprite
	}

	p, err := c.Create(ctx, *name, splitTypes(*types), sprites)
	if err != nil {
		return err
	}
	fmt.Println("Added:")
	printPokemon(*p)
	return nil
}

func runUpdate(ctx context.Context, c *client.Client, args []string) error {
	if len(args) == 0 {
		return errors.New("update requires an <id> argument")
	}
	id, rest := args[0], args[1:]

	fs := flag.NewFlagSet("update", flag.ExitOnError)
	name := fs.String("name", "", "new name")
	types := fs.String("types", "", "new comma-separated type tags")
	sprite := fs.String("sprite", "", "new front sprite URL")
	fs.Parse(rest)

	// Only flags the user actually set go into the request — the server
	// keeps stored values for everything it doesn't see.
	fields := map[string]any{}
	if *name != "" {
		fields["name"] = *name
	}
	if *types != "" {
		fields["types"] = splitTypes(*types)
	}
	if *sprite != "" {
		fields["sprites"] = map[string]string{"front_default": *sprite}
	}
	if len(fields) == 0 {
		return errors.New("update needs at least one of -name, -types, -sprite")
	}

	p, err := c.Update(ctx, id, fields)
	if err != nil {
		return err
	}
	fmt.Println("Updated:")
	printPokemon(*p)
	return nil
}

func runDelete(ctx context.Context, c *client.Client, args []string) error {
	if len(args) != 1 {
		return errors.New("delete requires exactly one <id> argument")
	}
	if err := c.Delete(ctx, args[0]); err != nil {
		return err
	}
	fmt.Println("Deleted.")
	return nil
}

func splitTypes(csv string) []string {
	parts := strings.Split(csv, ",")
	types := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			types = append(types, p)
		}
	}
	return types
}

func printPokemon(p model.Pokemon) {
	fmt.Printf("%s  %s  [%s]\n", p.ID, p.Name, strings.Join(p.Types, ", "))
	if url, ok := p.Sprites["front_default"]; ok && url != "" {
		fmt.Printf("    sprite: %s\n", url)
	}
}

package command

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/SamSjosten/sessionvault-go/internal/vault"
)

// GetCommand returns the get command.
func GetCommand() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Read the value stored under a key",
		ArgsUsage: "KEY",
		Action:    vaultGet,
	}
}

// SetCommand returns the set command.
func SetCommand() *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     "Store a value under a key",
		ArgsUsage: "KEY VALUE",
		Action:    vaultSet,
	}
}

// RemoveCommand returns the remove command.
func RemoveCommand() *cli.Command {
	return &cli.Command{
		Name:      "remove",
		Aliases:   []string{"rm"},
		Usage:     "Delete the entry stored under a key",
		ArgsUsage: "KEY",
		Action:    vaultRemove,
	}
}

func vaultGet(c *cli.Context) error {
	key := c.Args().First()
	if key == "" {
		return cli.Exit("usage: sessionvault get KEY", 2)
	}

	v, err := openVault(c)
	if err != nil {
		return err
	}
	defer v.Close()

	value, err := v.GetItem(c.Context, key)
	if errors.Is(err, vault.ErrNotFound) {
		return cli.Exit(fmt.Sprintf("no entry for %q", key), 1)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, value)
	return nil
}

func vaultSet(c *cli.Context) error {
	key, value := c.Args().Get(0), c.Args().Get(1)
	if key == "" || c.Args().Len() < 2 {
		return cli.Exit("usage: sessionvault set KEY VALUE", 2)
	}

	v, err := openVault(c)
	if err != nil {
		return err
	}
	defer v.Close()

	if err := v.SetItem(c.Context, key, value); err != nil {
		return err
	}

	st, _ := v.Status()
	if !st.Persistent {
		fmt.Fprintln(c.App.ErrWriter, "warning: stored in volatile mode, value will not survive this process")
	}
	return nil
}

func vaultRemove(c *cli.Context) error {
	key := c.Args().First()
	if key == "" {
		return cli.Exit("usage: sessionvault remove KEY", 2)
	}

	v, err := openVault(c)
	if err != nil {
		return err
	}
	defer v.Close()

	return v.RemoveItem(c.Context, key)
}

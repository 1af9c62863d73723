package cli

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newConnectCmd() *cobra.Command {
	var (
		loginUser    string
		registerUser string
		password     string
	)

	cmd := &cobra.Command{
		Use:   "connect",
		Short: "Connect to the chat server",
		Long: `Connect opens a TCP session to the server and relays lines between
your terminal and the chat. With --login or --register plus --password,
a one-shot authentication command is sent immediately on connect;
otherwise the server's interactive prompts walk you through signing in.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if loginUser != "" && registerUser != "" {
				return fmt.Errorf("--login and --register are mutually exclusive")
			}
			if (loginUser != "" || registerUser != "") && password == "" {
				return fmt.Errorf("--password is required with --login or --register")
			}

			conn, err := net.Dial("tcp", cfg.ServerAddr)
			if err != nil {
				return fmt.Errorf("connect to %s: %w", cfg.ServerAddr, err)
			}
			defer func() { _ = conn.Close() }()

			if loginUser != "" {
				fmt.Fprintf(conn, "/login %s %s\n", loginUser, password)
			}
			if registerUser != "" {
				fmt.Fprintf(conn, "/register %s %s\n", registerUser, password)
			}

			return relay(conn, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&loginUser, "login", "", "Log in as this user on connect")
	cmd.Flags().StringVar(&registerUser, "register", "", "Register this user on connect")
	cmd.Flags().StringVar(&password, "password", "", "Password for --login/--register")

	return cmd
}

// relay pumps server output to the terminal and terminal input to the
// server until either side closes.
func relay(conn net.Conn, in io.Reader, out io.Writer) error {
	errCh := make(chan error, 2)

	go func() {
		_, err := io.Copy(out, conn)
		errCh <- err
	}()

	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if _, err := fmt.Fprintln(conn, line); err != nil {
				errCh <- err
				return
			}
		}
		errCh <- scanner.Err()
	}()

	if err := <-errCh; err != nil && err != io.EOF {
		return err
	}
	fmt.Fprintln(os.Stderr, "disconnected")
	return nil
}

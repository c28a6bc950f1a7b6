// Command ushioprobe plays the projector's role against a ballast (real or
// emulated) over a serial port: it sends Ushio query byte sequences and
// prints whatever the ballast answers.
//
// The wire format is the Ushio protocol's: 2400 baud, 8 data bits, even
// parity, 1 stop bit.
//
//	ushioprobe query  --port /dev/ttyUSB0
//	ushioprobe send   --port /dev/ttyUSB0 51 0d
//	ushioprobe listen --port /dev/ttyUSB0
package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.bug.st/serial"

	"github.com/zanppa/ballast-emulator/emulator"
	"github.com/zanppa/ballast-emulator/ushio"
)

var (
	portName     string
	baudRate     int
	replyTimeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "ushioprobe",
	Short: "Ushio ballast protocol probe",
	Long: `Ushioprobe - a test tool that talks the Ushio projector-lamp ballast
protocol from the projector's side of the bus.

Point it at a serial port wired to a ballast (or a ballast emulator) and it
will send the known query byte sequences and print the replies.`,
}

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Send each known query and print the replies",
	RunE: func(_ *cobra.Command, _ []string) error {
		port, err := openPort()
		if err != nil {
			return err
		}
		defer port.Close()

		for _, entry := range uniqueQueries(ushio.DefaultTable()) {
			fmt.Printf("-> [% 02X]\n", entry)

			if _, err := port.Write(entry); err != nil {
				return fmt.Errorf("write query: %w", err)
			}

			reply, err := readReply(port)
			if err != nil {
				return err
			}
			if len(reply) == 0 {
				fmt.Println("<- (no reply)")
				continue
			}
			fmt.Printf("<- [% 02X]\n", reply)
		}

		return nil
	},
}

var sendCmd = &cobra.Command{
	Use:   "send BYTE...",
	Short: "Send raw hex bytes and print the reply",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		data := make([]byte, 0, len(args))
		for _, arg := range args {
			v, err := strconv.ParseUint(arg, 16, 8)
			if err != nil {
				return fmt.Errorf("invalid hex byte %q: %w", arg, err)
			}
			data = append(data, byte(v))
		}

		port, err := openPort()
		if err != nil {
			return err
		}
		defer port.Close()

		fmt.Printf("-> [% 02X]\n", data)

		if _, err := port.Write(data); err != nil {
			return fmt.Errorf("write: %w", err)
		}

		reply, err := readReply(port)
		if err != nil {
			return err
		}
		if len(reply) == 0 {
			fmt.Println("<- (no reply)")
			return nil
		}
		fmt.Printf("<- [% 02X]\n", reply)

		return nil
	},
}

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Dump received bytes as hex until interrupted",
	RunE: func(_ *cobra.Command, _ []string) error {
		port, err := openPort()
		if err != nil {
			return err
		}
		defer port.Close()

		if err := port.SetReadTimeout(100 * time.Millisecond); err != nil {
			return fmt.Errorf("set read timeout: %w", err)
		}

		buf := make([]byte, 64)
		for {
			n, err := port.Read(buf)
			if err != nil {
				return fmt.Errorf("read: %w", err)
			}
			if n > 0 {
				fmt.Printf("[% 02X]\n", buf[:n])
			}
		}
	},
}

// openPort opens the serial port with the Ushio wire format: 8 data bits,
// even parity, one stop bit.
func openPort() (serial.Port, error) {
	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.EvenParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", portName, err)
	}

	return port, nil
}

// readReply collects bytes until the line stays quiet for the reply timeout.
// Replies are at most ushio.MaxSequenceLen bytes, but the length is not
// assumed: silence terminates the read, like the original bus captures did.
func readReply(port serial.Port) ([]byte, error) {
	if err := port.SetReadTimeout(replyTimeout); err != nil {
		return nil, fmt.Errorf("set read timeout: %w", err)
	}

	var reply []byte
	buf := make([]byte, 16)
	for {
		n, err := port.Read(buf)
		if err != nil {
			return nil, fmt.Errorf("read reply: %w", err)
		}
		if n == 0 {
			return reply, nil // timeout, line is quiet
		}
		reply = append(reply, buf[:n]...)
	}
}

// uniqueQueries returns the table's queries with duplicates removed,
// preserving order.
func uniqueQueries(table ushio.Table) [][]byte {
	seen := make(map[string]bool, len(table))
	queries := make([][]byte, 0, len(table))

	for _, e := range table {
		if seen[string(e.Query)] {
			continue
		}
		seen[string(e.Query)] = true
		queries = append(queries, e.Query)
	}

	return queries
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&portName, "port", "p", "", "Serial port device")
	rootCmd.PersistentFlags().IntVarP(&baudRate, "baud", "b", emulator.DefaultBaudRate, "Baud rate")
	rootCmd.PersistentFlags().DurationVar(&replyTimeout, "reply-timeout", 500*time.Millisecond, "Quiet time that ends a reply")

	_ = rootCmd.MarkPersistentFlagRequired("port")

	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(listenCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/hfale/pald/pkg/client"
)

var addr = flag.String("addr", "http://127.0.0.1:8080", "pald API address")

func main() {
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		showHelp()
		return
	}

	c := client.New(*addr)

	var (
		result json.RawMessage
		err    error
	)
	switch strings.ToLower(args[0]) {
	case "status":
		result, err = c.Status()
	case "channels":
		result, err = c.Channels()
	case "channel":
		result, err = setChannel(c, args[1:])
	case "ptt":
		result, err = setPTT(c, args[1:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", args[0])
		showHelp()
		os.Exit(1)
	}

	if len(result) > 0 {
		printJSON(result)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setChannel handles: channel <frequency-hz> [mode] [id]
func setChannel(c *client.Client, args []string) (json.RawMessage, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("usage: channel <frequency-hz> [mode] [id]")
	}

	freq, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid frequency %q", args[0])
	}

	mode := ""
	if len(args) > 1 {
		mode = args[1]
	}

	var id uint8
	if len(args) > 2 {
		parsed, err := strconv.ParseUint(args[2], 10, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid channel id %q", args[2])
		}
		id = uint8(parsed)
	}

	return c.SetChannel(uint32(freq), mode, id)
}

// setPTT handles: ptt on|off
func setPTT(c *client.Client, args []string) (json.RawMessage, error) {
	if len(args) != 1 || (args[0] != "on" && args[0] != "off") {
		return nil, fmt.Errorf("usage: ptt on|off")
	}
	return c.SetPTT(args[0] == "on")
}

func printJSON(data json.RawMessage) {
	var pretty bytes.Buffer
	if json.Indent(&pretty, data, "", "  ") == nil {
		fmt.Println(pretty.String())
	} else {
		fmt.Println(string(data))
	}
}

func showHelp() {
	fmt.Println("palctl - pald control tool")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Printf("  %s [options] <command>\n", os.Args[0])
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -addr <url>    pald API address (default: http://127.0.0.1:8080)")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  status                         Get daemon status")
	fmt.Println("  channels                       List the stored channel table")
	fmt.Println("  channel <freq-hz> [mode] [id]  Program a channel (e.g. channel 14250000 USB 1)")
	fmt.Println("  ptt on|off                     Key or unkey the transmitter")
}

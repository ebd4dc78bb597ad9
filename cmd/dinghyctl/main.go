// dinghyctl drives a running dinghy builder the way a proposer would.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/flashbots/go-boost-utils/types"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/blocknative/dinghy/api"
)

const defaultURL = "http://localhost:18550"

var (
	flagURL = &cli.StringFlag{
		Name:    "url",
		Usage:   "builder API base url",
		Value:   defaultURL,
		EnvVars: []string{"DINGHY_URL"},
	}
	flagTimeout = &cli.DurationFlag{
		Name:  "timeout",
		Usage: "request timeout",
		Value: 5 * time.Second,
	}
	flagSlot = &cli.Uint64Flag{
		Name:     "slot",
		Usage:    "proposal slot",
		Required: true,
	}
	flagParentHash = &cli.StringFlag{
		Name:     "parent-hash",
		Usage:    "parent execution block hash",
		Required: true,
	}
	flagPubkey = &cli.StringFlag{
		Name:  "pubkey",
		Usage: "proposer public key",
		Value: types.PublicKey{}.String(),
	}
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:      "dinghyctl",
		Usage:     "query and redeem bids of a dinghy builder",
		Flags:     []cli.Flag{flagURL, flagTimeout},
		Writer:    out,
		ErrWriter: out,
		Commands: []*cli.Command{
			{
				Name:  "status",
				Usage: "check the builder is up",
				Action: func(c *cli.Context) error {
					_, err := get(c, api.PathStatus)
					if err != nil {
						return err
					}
					fmt.Fprintln(c.App.Writer, "ok")
					return nil
				},
			},
			{
				Name:  "header",
				Usage: "fetch a signed bid",
				Flags: []cli.Flag{flagSlot, flagParentHash, flagPubkey},
				Action: func(c *cli.Context) error {
					body, err := get(c, headerPath(c))
					if err != nil {
						return err
					}
					if body == nil {
						fmt.Fprintln(c.App.Writer, "no bid")
						return nil
					}
					return printJSON(c.App.Writer, body)
				},
			},
			{
				Name:  "submit",
				Usage: "fetch a bid and redeem it with a blinded block",
				Flags: []cli.Flag{flagSlot, flagParentHash, flagPubkey},
				Action: func(c *cli.Context) error {
					body, err := get(c, headerPath(c))
					if err != nil {
						return err
					}
					if body == nil {
						return errors.New("no bid to redeem")
					}

					var bid struct {
						Version string `json:"version"`
						Data    struct {
							Message struct {
								Header json.RawMessage `json:"header"`
							} `json:"message"`
						} `json:"data"`
					}
					if err := json.Unmarshal(body, &bid); err != nil {
						return errors.Wrap(err, "decode bid")
					}

					block, err := blindedBlock(c.Uint64(flagSlot.Name), bid.Data.Message.Header)
					if err != nil {
						return err
					}

					payload, err := post(c, api.PathGetPayload, bid.Version, block)
					if err != nil {
						return err
					}
					return printJSON(c.App.Writer, payload)
				},
			},
		},
	}
}

func headerPath(c *cli.Context) string {
	p := strings.Replace(api.PathGetHeader, "{slot}", strconv.FormatUint(c.Uint64(flagSlot.Name), 10), 1)
	p = strings.Replace(p, "{parent_hash}", c.String(flagParentHash.Name), 1)
	return strings.Replace(p, "{pubkey}", c.String(flagPubkey.Name), 1)
}

// blindedBlock wraps a bid header into an unsigned blinded block. The
// builder only checks the header, so the consensus fields stay zero.
func blindedBlock(slot uint64, header json.RawMessage) ([]byte, error) {
	if len(header) == 0 {
		return nil, errors.New("bid carries no header")
	}
	return json.Marshal(map[string]any{
		"message": map[string]any{
			"slot":           strconv.FormatUint(slot, 10),
			"proposer_index": "0",
			"parent_root":    types.Root{},
			"state_root":     types.Root{},
			"body": map[string]any{
				"randao_reveal":            types.Signature{},
				"graffiti":                 types.Hash{},
				"execution_payload_header": header,
			},
		},
		"signature": types.Signature{},
	})
}

func client(c *cli.Context) *http.Client {
	return &http.Client{Timeout: c.Duration(flagTimeout.Name)}
}

// get returns a nil body on 204.
func get(c *cli.Context, path string) ([]byte, error) {
	resp, err := client(c).Get(c.String(flagURL.Name) + path)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusNoContent:
		return nil, nil
	default:
		return nil, errors.WithMessage(fmt.Errorf("invalid return code, expected 200 - received %d", resp.StatusCode), string(body))
	}
}

func post(c *cli.Context, path, version string, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(c.Context, http.MethodPost, c.String(flagURL.Name)+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if version != "" {
		req.Header.Set(api.HeaderConsensusVersion, version)
	}

	resp, err := client(c).Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.WithMessage(fmt.Errorf("invalid return code, expected 200 - received %d", resp.StatusCode), string(body))
	}
	return body, nil
}

func printJSON(w io.Writer, body []byte) error {
	var out bytes.Buffer
	if err := json.Indent(&out, body, "", "  "); err != nil {
		return errors.Wrap(err, "malformed response")
	}
	_, err := fmt.Fprintln(w, out.String())
	return err
}

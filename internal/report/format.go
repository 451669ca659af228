package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
	"gopkg.in/yaml.v3"
)

// Format selects the output encoding of a report.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatProtobuf Format = "protobuf"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatText, FormatJSON, FormatYAML, FormatProtobuf:
		return f, nil
	default:
		return "", fmt.Errorf("unknown report format %q (must be text, json, yaml or protobuf)", s)
	}
}

// Write renders rep to w in the given format.
func Write(w io.Writer, format Format, rep Report) error {
	switch format {
	case FormatText:
		return writeText(w, rep)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rep); err != nil {
			return fmt.Errorf("encode yaml report: %w", err)
		}
		return enc.Close()
	case FormatProtobuf:
		return writeProtobuf(w, rep)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

func writeText(w io.Writer, rep Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "run\t%s\n", rep.Run.ID)
	fmt.Fprintf(tw, "origin\t%s\n", rep.Run.Origin)
	fmt.Fprintf(tw, "ingested_at\t%s\n", rep.Run.IngestedAt.Format(time.RFC3339))
	fmt.Fprintf(tw, "accepted\t%d\n", rep.Run.Accepted)
	fmt.Fprintf(tw, "rejected\t%d\n", rep.Run.Rejected)

	fmt.Fprintf(tw, "\nTOP ZONES\n")
	fmt.Fprintf(tw, "RANK\tZONE\tTRIPS\tSHARE\n")
	for _, r := range rep.Zones {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", r.Rank, r.Zone, r.Count, r.Share.StringFixed(sharePlaces))
	}

	fmt.Fprintf(tw, "\nTOP SLOTS\n")
	fmt.Fprintf(tw, "RANK\tZONE\tHOUR\tTRIPS\tSHARE\n")
	for _, r := range rep.Slots {
		fmt.Fprintf(tw, "%d\t%s\t%02d\t%d\t%s\n", r.Rank, r.Zone, r.Hour, r.Count, r.Share.StringFixed(sharePlaces))
	}

	return tw.Flush()
}

// writeProtobuf encodes the report as a google.protobuf.Struct message.
func writeProtobuf(w io.Writer, rep Report) error {
	msg, err := ToStruct(rep)
	if err != nil {
		return err
	}
	b, err := proto.MarshalOptions{Deterministic: true}.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal protobuf report: %w", err)
	}
	_, err = w.Write(b)
	return err
}

// ToStruct converts rep into a protobuf Struct. Counts are carried as
// strings since Struct numbers are doubles.
func ToStruct(rep Report) (*structpb.Struct, error) {
	zones := make([]interface{}, len(rep.Zones))
	for i, r := range rep.Zones {
		zones[i] = map[string]interface{}{
			"rank":  r.Rank,
			"zone":  r.Zone,
			"count": strconv.FormatInt(r.Count, 10),
			"share": r.Share.String(),
		}
	}

	slots := make([]interface{}, len(rep.Slots))
	for i, r := range rep.Slots {
		slots[i] = map[string]interface{}{
			"rank":  r.Rank,
			"zone":  r.Zone,
			"hour":  r.Hour,
			"count": strconv.FormatInt(r.Count, 10),
			"share": r.Share.String(),
		}
	}

	msg, err := structpb.NewStruct(map[string]interface{}{
		"run": map[string]interface{}{
			"id":          rep.Run.ID.String(),
			"origin":      rep.Run.Origin,
			"ingested_at": rep.Run.IngestedAt.Format(time.RFC3339Nano),
			"accepted":    rep.Run.Accepted,
			"rejected":    rep.Run.Rejected,
		},
		"zones": zones,
		"slots": slots,
	})
	if err != nil {
		return nil, fmt.Errorf("build protobuf report: %w", err)
	}
	return msg, nil
}

// package formatter converts playlists between the M3U text format and
// tabular exports (CSV, Markdown) for CLI output.
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/desertthunder/tvx/internal/models"
	"github.com/desertthunder/tvx/internal/shared"
)

// wellKnownAttrs are EXTINF attributes mapped to dedicated Channel fields;
// everything else lands in ExtraTags.
var wellKnownAttrs = map[string]bool{
	"tvg-id":      true,
	"tvg-logo":    true,
	"group-title": true,
}

var (
	attrPattern     = regexp.MustCompile(`([\w-]+)="([^"]*)"`)
	durationPattern = regexp.MustCompile(`^-?\d+`)
	epgPattern      = regexp.MustCompile(`x-tvg-url="([^"]+)"`)
)

// ExportToM3U renders a playlist as M3U text, one EXTINF entry per channel in
// position order, with tvg attributes plus any extra tags.
func ExportToM3U(playlist *models.Playlist) []byte {
	var buf bytes.Buffer

	if playlist.EPGURL != "" {
		buf.WriteString(fmt.Sprintf("#EXTM3U x-tvg-url=%q\n", playlist.EPGURL))
	} else {
		buf.WriteString("#EXTM3U\n")
	}

	channels := make([]models.Channel, len(playlist.Channels))
	copy(channels, playlist.Channels)
	sort.SliceStable(channels, func(i, j int) bool { return channels[i].Position < channels[j].Position })

	for _, channel := range channels {
		buf.WriteString("#EXTINF:-1")
		if channel.TvgID != "" {
			buf.WriteString(fmt.Sprintf(" tvg-id=%q", channel.TvgID))
		}
		if channel.LogoURL != "" {
			buf.WriteString(fmt.Sprintf(" tvg-logo=%q", channel.LogoURL))
		}
		if channel.GroupTitle != "" {
			buf.WriteString(fmt.Sprintf(" group-title=%q", channel.GroupTitle))
		}

		extras := make([]string, 0, len(channel.ExtraTags))
		for key := range channel.ExtraTags {
			extras = append(extras, key)
		}
		sort.Strings(extras)
		for _, key := range extras {
			buf.WriteString(fmt.Sprintf(" %s=%q", key, channel.ExtraTags[key]))
		}

		buf.WriteString(fmt.Sprintf(",%s\n%s\n", channel.Name, channel.URL))
	}

	return buf.Bytes()
}

// ParseM3U extracts channels from M3U text. Positions are assigned in file
// order starting at 1. Lines that are neither EXTINF headers nor URLs are
// skipped; a header without a following URL is dropped.
func ParseM3U(content []byte) ([]models.Channel, error) {
	text := string(content)
	if !strings.Contains(text, "#EXTM3U") && !strings.Contains(text, "#EXTINF") {
		return nil, fmt.Errorf("%w: not an M3U document", shared.ErrInvalidInput)
	}

	var channels []models.Channel
	var pending *models.Channel

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#EXTM3U") {
			continue
		}

		if strings.HasPrefix(line, "#EXTINF:") {
			pending = parseExtinf(strings.TrimPrefix(line, "#EXTINF:"))
			continue
		}

		if strings.HasPrefix(line, "#") {
			continue
		}

		// A bare line is the stream URL for the pending header.
		if pending != nil {
			pending.URL = line
			pending.Position = len(channels) + 1
			channels = append(channels, *pending)
			pending = nil
		}
	}

	return channels, nil
}

// parseExtinf splits one EXTINF payload into attributes and display name.
func parseExtinf(info string) *models.Channel {
	if m := durationPattern.FindString(info); m != "" {
		info = strings.TrimSpace(strings.TrimPrefix(info[len(m):], ","))
	}

	channel := &models.Channel{}
	for _, match := range attrPattern.FindAllStringSubmatch(info, -1) {
		key, value := match[1], match[2]
		switch key {
		case "tvg-id":
			channel.TvgID = value
		case "tvg-logo":
			channel.LogoURL = value
		case "group-title":
			channel.GroupTitle = value
		default:
			if channel.ExtraTags == nil {
				channel.ExtraTags = make(map[string]string)
			}
			channel.ExtraTags[key] = value
		}
	}

	name := attrPattern.ReplaceAllString(info, "")
	name = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(name), ","))
	channel.Name = name
	return channel
}

// EPGFromM3U returns the x-tvg-url of the document header, if any.
func EPGFromM3U(content []byte) string {
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "#EXTM3U") {
			continue
		}
		if m := epgPattern.FindStringSubmatch(line); m != nil {
			return m[1]
		}
		return ""
	}
	return ""
}

// ExportToCSV converts a playlist's channels to CSV with columns: Position, Name, Group, TvgID, URL
func ExportToCSV(playlist *models.Playlist) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Position", "Name", "Group", "TvgID", "URL"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, channel := range playlist.Channels {
		record := []string{
			strconv.Itoa(channel.Position),
			channel.Name,
			channel.GroupTitle,
			channel.TvgID,
			channel.URL,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a playlist to a Markdown summary with a channel table.
func ExportToMarkdown(playlist *models.Playlist) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", playlist.Name))
	if playlist.URL != "" {
		buf.WriteString(fmt.Sprintf("**Source**: %s\n", playlist.URL))
	}
	buf.WriteString(fmt.Sprintf("**Channels**: %d\n", len(playlist.Channels)))
	buf.WriteString(fmt.Sprintf("**Last sync**: %s\n\n", shared.FormatTimestamp(playlist.LastSyncAt)))

	if len(playlist.Channels) == 0 {
		return buf.Bytes()
	}

	buf.WriteString("| # | Name | Group |\n|---|------|-------|\n")
	for _, channel := range playlist.Channels {
		group := channel.GroupTitle
		if group == "" {
			group = "-"
		}
		buf.WriteString(fmt.Sprintf("| %d | %s | %s |\n", channel.Position, channel.Name, group))
	}

	return buf.Bytes()
}

// internal/ui/ui.go
package ui

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"

	"framelift/internal/video"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			MarginBottom(1)

	PromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#06B6D4")).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7C3AED")).
			Padding(1, 2).
			MarginTop(1).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#111827"))
)

// RenderVideoInfo formats the probed input details as a bordered panel.
func RenderVideoInfo(info *video.Info) string {
	audio := "none"
	if info.HasAudio {
		audio = "yes"
	}

	content := fmt.Sprintf(
		"%s %s\n"+
			"%s %s\n"+
			"%s %dx%d\n"+
			"%s %s\n"+
			"%s %.2f fps\n"+
			"%s %s\n"+
			"%s %s\n"+
			"%s %s",
		labelStyle.Render("File:"), valueStyle.Render(filepath.Base(info.Filepath)),
		labelStyle.Render("Size:"), valueStyle.Render(FormatFileSize(info.FileSize)),
		labelStyle.Render("Dimensions:"), info.Width, info.Height,
		labelStyle.Render("Format:"), valueStyle.Render(info.Format),
		labelStyle.Render("Frame rate:"), info.FrameRate,
		labelStyle.Render("Bitrate:"), valueStyle.Render(FormatBitrate(info.Bitrate)),
		labelStyle.Render("Duration:"), valueStyle.Render(FormatDuration(info.Duration)),
		labelStyle.Render("Audio:"), valueStyle.Render(audio),
	)

	return infoStyle.Render(content)
}

// FormatFileSize converts bytes to human-readable form.
func FormatFileSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// FormatDuration converts seconds to MM:SS form.
func FormatDuration(seconds float64) string {
	totalSeconds := int(seconds)
	minutes := totalSeconds / 60
	remainingSeconds := totalSeconds % 60

	return fmt.Sprintf("%02d:%02d", minutes, remainingSeconds)
}

// FormatBitrate converts bits per second to kbps.
func FormatBitrate(bitrate int64) string {
	if bitrate == 0 {
		return "Unknown"
	}
	return fmt.Sprintf("%.1f kbps", float64(bitrate)/1000)
}

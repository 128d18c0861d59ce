package bot

import (
	"fmt"
	"strings"
	"time"

	"punchclock/internal/db/models"
	"punchclock/internal/timesheet"

	"github.com/bwmarrin/discordgo"
)

var commands = []*discordgo.ApplicationCommand{
	{
		Name:        "punchin",
		Description: "Clock in and start a work session",
	},
	{
		Name:        "punchout",
		Description: "Clock out and end the current work session",
	},
	{
		Name:        "status",
		Description: "Show current punch status and weekly totals",
	},
	{
		Name:        "report",
		Description: "Show daily work totals",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "period",
				Description: "Time period",
				Required:    true,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{
						Name:  "Today",
						Value: "today",
					},
					{
						Name:  "This Week",
						Value: "week",
					},
				},
			},
		},
	},
}

func (b *Bot) handlePunchIn(s *discordgo.Session, i *discordgo.InteractionCreate) {
	punch, err := b.db.Append(models.KindIn)
	if err != nil {
		respondWithError(s, i, "Error recording punch: "+err.Error())
		return
	}
	respondWithSuccess(s, i, fmt.Sprintf("Punched in at %s",
		time.UnixMilli(punch.Timestamp).Format("15:04:05")))
}

func (b *Bot) handlePunchOut(s *discordgo.Session, i *discordgo.InteractionCreate) {
	punch, err := b.db.Append(models.KindOut)
	if err != nil {
		respondWithError(s, i, "Error recording punch: "+err.Error())
		return
	}
	respondWithSuccess(s, i, fmt.Sprintf("Punched out at %s",
		time.UnixMilli(punch.Timestamp).Format("15:04:05")))
}

func (b *Bot) handleStatus(s *discordgo.Session, i *discordgo.InteractionCreate) {
	punches, err := b.db.Load()
	if err != nil {
		respondWithError(s, i, "Error loading punches: "+err.Error())
		return
	}

	stats := timesheet.Stats(punches, time.Now())

	var response strings.Builder
	if stats.Status == models.StatusPunchedIn {
		response.WriteString("Currently **punched in**")
	} else {
		response.WriteString("Currently **punched out**")
	}
	if stats.LastPunch != nil {
		response.WriteString(fmt.Sprintf(" (last punch %s)",
			time.UnixMilli(stats.LastPunch.Timestamp).Format("2006-01-02 15:04:05")))
	}
	response.WriteString(fmt.Sprintf("\nThis week: %.1fh total, %.1fh daily average",
		stats.TotalHoursThisWeek, stats.AverageDailyHours))

	respondWithSuccess(s, i, response.String())
}

func (b *Bot) handleReport(s *discordgo.Session, i *discordgo.InteractionCreate) {
	period := i.ApplicationCommandData().Options[0].StringValue()

	punches, err := b.db.Load()
	if err != nil {
		respondWithError(s, i, "Error loading punches: "+err.Error())
		return
	}

	now := time.Now()
	days := timesheet.Days(punches, now)

	switch period {
	case "today":
		today := now.Format("2006-01-02")
		var filtered []models.WorkDay
		for _, d := range days {
			if d.Date == today {
				filtered = append(filtered, d)
			}
		}
		days = filtered
	case "week":
		cutoff := now.AddDate(0, 0, -7).Format("2006-01-02")
		var filtered []models.WorkDay
		for _, d := range days {
			if d.Date > cutoff {
				filtered = append(filtered, d)
			}
		}
		days = filtered
	default:
		respondWithError(s, i, "Invalid time period")
		return
	}

	if len(days) == 0 {
		respondWithSuccess(s, i, "No tracked time for this period")
		return
	}

	rows := make([][]string, 0, len(days))
	var total float64
	for _, d := range days {
		rows = append(rows, []string{d.Date, fmt.Sprintf("%.2fh", d.TotalHours)})
		total += d.TotalHours
	}
	rows = append(rows, []string{"TOTAL", fmt.Sprintf("%.2fh", total)})

	respondWithSuccess(s, i, formatTable([]string{"DATE", "HOURS"}, rows))
}

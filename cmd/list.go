package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"doomdeck/logger"
	"doomdeck/profiles"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:       "list [engines|iwads|pwads|maps|editors|profiles|queues]",
	Short:     "List registered entities",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"engines", "iwads", "pwads", "maps", "editors", "profiles", "queues"},
	Run: func(_ *cobra.Command, args []string) {
		runList(args[0])
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(entity string) {
	_, reg, _ := bootstrap(".")

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	defer w.Flush()

	switch entity {
	case "engines":
		rows, err := reg.Engines()
		fatalOnListErr(entity, err)
		fmt.Fprintln(w, "ID\tTYPE\tVERSION\tPATH")
		for _, e := range rows {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", e.ID, e.EngineType, e.Version, e.Path)
		}
	case "iwads":
		rows, err := reg.BaseContents()
		fatalOnListErr(entity, err)
		fmt.Fprintln(w, "ID\tTYPE\tPATH")
		for _, b := range rows {
			fmt.Fprintf(w, "%d\t%s\t%s\n", b.ID, b.ContentType, b.Path)
		}
	case "pwads":
		rows, err := reg.AddonContents()
		fatalOnListErr(entity, err)
		fmt.Fprintln(w, "ID\tNAME\tPATH")
		for _, a := range rows {
			fmt.Fprintf(w, "%d\t%s\t%s\n", a.ID, a.Name, a.Path)
		}
	case "maps":
		rows, err := reg.Maps()
		fatalOnListErr(entity, err)
		fmt.Fprintln(w, "ID\tTITLE\tAUTHOR\tPATH")
		for _, m := range rows {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", m.ID, m.Title, m.Author, m.Path)
		}
	case "editors":
		rows, err := reg.Editors()
		fatalOnListErr(entity, err)
		fmt.Fprintln(w, "ID\tNAME\tVERSION\tPATH")
		for _, e := range rows {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", e.ID, e.AppName, e.Version, e.Path)
		}
	case "profiles":
		mgr := profiles.NewManager(reg)
		rows, err := mgr.Profiles()
		fatalOnListErr(entity, err)
		fmt.Fprintln(w, "ID\tNAME\tENGINE\tIWAD\tADDONS\tARGS")
		for _, p := range rows {
			var addonIDs []string
			for _, slot := range p.AddonSlots() {
				if slot != nil {
					addonIDs = append(addonIDs, fmt.Sprint(*slot))
				}
			}
			fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%s\t%s\n",
				p.ID, p.Name, p.EngineID, p.BaseContentID, strings.Join(addonIDs, ","), p.ExtraArgs)
		}
	case "queues":
		queues := profiles.NewQueueManager(reg)
		rows, err := queues.Queues()
		fatalOnListErr(entity, err)
		fmt.Fprintln(w, "ID\tNAME\tPROFILES")
		for _, q := range rows {
			items, err := queues.Items(q.ID)
			fatalOnListErr(entity, err)
			var profileIDs []string
			for _, item := range items {
				profileIDs = append(profileIDs, fmt.Sprint(item.ProfileID))
			}
			fmt.Fprintf(w, "%d\t%s\t%s\n", q.ID, q.Name, strings.Join(profileIDs, ","))
		}
	}
}

func fatalOnListErr(entity string, err error) {
	if err != nil {
		logger.Log.Fatalw("Failed to list "+entity, zap.Error(err))
	}
}

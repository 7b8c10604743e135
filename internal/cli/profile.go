package cli

import (
	"encoding/json"
	"fmt"

	"github.com/Harshitk-cp/homesense/internal/domain"
	"github.com/spf13/cobra"
)

var (
	flagRegion   string
	flagChildren bool
	flagElderly  bool
	flagPet      bool
	flagSchedule string
	flagCooking  string
	flagMembers  int
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or initialize a user profile",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the stored profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, logger, err := build(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()
		defer c.Close()

		load := c.Profiles.Load(cmd.Context(), flagProfileID)
		out := cmd.OutOrStdout()
		if load.Reason != nil {
			fmt.Fprintf(out, "# %s: %v\n", load.Status, load.Reason)
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(load.Profile)
	},
}

var profileInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a new profile, replacing any existing one",
	Long: `Write a new profile starting from the defaults.

Examples:
  homesense profile init --region north --children --cooking frequent`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p := domain.DefaultUserProfile()
		p.Region = flagRegion
		p.HasChildren = flagChildren
		p.HasElderly = flagElderly
		p.HasPet = flagPet
		p.WorkSchedule = flagSchedule
		p.CookingHabits = flagCooking
		p.FamilyMembers = flagMembers
		if p.Region != domain.RegionNorth && p.Region != domain.RegionSouth {
			return fmt.Errorf("region must be %s or %s", domain.RegionNorth, domain.RegionSouth)
		}
		p.Normalize()

		c, logger, err := build(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()
		defer c.Close()

		if err := c.Profiles.Save(cmd.Context(), flagProfileID, p); err != nil {
			return fmt.Errorf("save profile: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "profile %q saved\n", flagProfileID)
		return nil
	},
}

func init() {
	f := profileInitCmd.Flags()
	f.StringVar(&flagRegion, "region", domain.RegionSouth, "north or south")
	f.BoolVar(&flagChildren, "children", false, "household has children")
	f.BoolVar(&flagElderly, "elderly", false, "household has elderly members")
	f.BoolVar(&flagPet, "pet", false, "household has a pet")
	f.StringVar(&flagSchedule, "schedule", domain.ScheduleRegular, "regular, night_shift or flexible")
	f.StringVar(&flagCooking, "cooking", domain.CookingMedium, "rare, medium or frequent")
	f.IntVar(&flagMembers, "members", 1, "number of family members")

	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileInitCmd)
}

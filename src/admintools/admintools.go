package admintools

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"git.blockward.net/bw/blockward/src/auth"
	"git.blockward.net/bw/blockward/src/bwdata"
	"git.blockward.net/bw/blockward/src/config"
	"git.blockward.net/bw/blockward/src/db"
	"git.blockward.net/bw/blockward/src/images"
	"git.blockward.net/bw/blockward/src/models"
	"git.blockward.net/bw/blockward/src/website"
	lorem "github.com/HandmadeNetwork/golorem"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func init() {
	adminCommand := &cobra.Command{
		Use:   "admin",
		Short: "Miscellaneous admin commands",
	}
	website.WebsiteCommand.AddCommand(adminCommand)

	setPasswordCommand := &cobra.Command{
		Use:   "setpassword [username] [new password]",
		Short: "Replace a user's password",
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) < 2 {
				fmt.Printf("You must provide a username and a password.\n\n")
				cmd.Usage()
				os.Exit(1)
			}

			username := args[0]
			password := args[1]

			ctx := context.Background()
			conn := db.NewConn()
			defer conn.Close(ctx)

			user, err := bwdata.FetchUserByUsername(ctx, conn, username)
			if err != nil {
				if err == db.NotFound {
					fmt.Printf("User '%s' not found\n", username)
					os.Exit(1)
				}
				panic(err)
			}

			err = auth.SetPassword(ctx, conn, user.Username, password)
			if err != nil {
				panic(err)
			}

			fmt.Printf("Successfully updated password for '%s'\n", user.Username)
		},
	}
	adminCommand.AddCommand(setPasswordCommand)

	assetsCommand := &cobra.Command{
		Use:   "assets",
		Short: "Inspect and clean up the image content roots",
	}
	adminCommand.AddCommand(assetsCommand)

	inventoryCommand := &cobra.Command{
		Use:   "inventory",
		Short: "List every file in every content root, marking orphans",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			conn := db.NewConn()
			defer conn.Close(ctx)

			for kind, root := range contentRoots() {
				inventory, err := images.Inventory(root)
				if err != nil {
					panic(err)
				}
				referenced, err := referencedSet(ctx, conn, kind, inventory)
				if err != nil {
					panic(err)
				}

				fmt.Printf("%s (%s): %d file(s)\n", kind, root, len(inventory))
				for _, file := range inventory {
					marker := " "
					if _, ok := referenced[file.Name]; !ok {
						marker = "?"
					}
					fmt.Printf("  %s %10d  %s  %s\n", marker, file.Size, file.ModTime.Format(time.DateTime), file.Name)
				}
			}
			fmt.Println("\nFiles marked '?' are not referenced by any record.")
		},
	}
	assetsCommand.AddCommand(inventoryCommand)

	deleteFileCommand := &cobra.Command{
		Use:   "deletefile [kind] [filename]...",
		Short: "Delete specific files from a content root",
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) < 2 {
				fmt.Printf("You must provide a root kind (posts, profiles, locations, static) and at least one filename.\n\n")
				cmd.Usage()
				os.Exit(1)
			}

			root, ok := contentRoots()[args[0]]
			if !ok {
				fmt.Printf("Unknown root kind '%s'\n", args[0])
				os.Exit(1)
			}

			report := images.DeleteAll(root, args[1:])
			fmt.Printf("Deleted: %d\n", len(report.Deleted))
			if len(report.NotFound) > 0 {
				fmt.Printf("Not found: %s\n", strings.Join(report.NotFound, ", "))
			}
			for _, e := range report.Errors {
				fmt.Printf("Error: %s\n", e)
			}
		},
	}
	assetsCommand.AddCommand(deleteFileCommand)

	var dryRun bool
	purgeCommand := &cobra.Command{
		Use:   "purge [kind]",
		Short: "Delete all orphaned files from a content root",
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) < 1 {
				fmt.Printf("You must provide a root kind (posts, profiles, locations).\n\n")
				cmd.Usage()
				os.Exit(1)
			}
			kind := args[0]
			root, ok := contentRoots()[kind]
			if !ok || kind == "static" {
				fmt.Printf("Unknown or unsupported root kind '%s'\n", kind)
				os.Exit(1)
			}

			ctx := context.Background()
			conn := db.NewConn()
			defer conn.Close(ctx)

			inventory, err := images.Inventory(root)
			if err != nil {
				panic(err)
			}
			referenced, err := referencedSet(ctx, conn, kind, inventory)
			if err != nil {
				panic(err)
			}
			orphans := images.Orphans(inventory, referenced)

			if dryRun {
				for _, orphan := range orphans {
					fmt.Printf("Would delete %s (%d bytes)\n", orphan.Name, orphan.Size)
				}
				fmt.Printf("%d orphan(s) total\n", len(orphans))
				return
			}

			var stillReferenced func(name string) (bool, error)
			switch kind {
			case "posts":
				stillReferenced = bwdata.PostStillReferenced(ctx, conn)
			case "profiles":
				stillReferenced = bwdata.ProfileStillReferenced(ctx, conn)
			case "locations":
				stillReferenced = bwdata.LocationStillReferenced(ctx, conn)
			}

			report := images.Purge(ctx, root, orphans, stillReferenced)
			fmt.Printf("Purged %d file(s), reclaiming %d bytes\n", len(report.Removed), report.BytesReclaimed)
			for _, e := range report.Errors {
				fmt.Printf("Error: %s\n", e)
			}
		},
	}
	purgeCommand.Flags().BoolVar(&dryRun, "dry-run", false, "List the orphans without deleting anything")
	assetsCommand.AddCommand(purgeCommand)

	seedCommand := &cobra.Command{
		Use:   "seed",
		Short: "Fill the database with sample users and posts",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			conn := db.NewConn()
			defer conn.Close(ctx)

			usernames := []string{"steve", "alexandra", "herobrine"}
			for i, username := range usernames {
				_, err := conn.Exec(ctx,
					`
					INSERT INTO bw_user (username, password, email, is_staff, bio, date_joined)
					VALUES ($1, '', $2, $3, $4, $5)
					ON CONFLICT (username) DO NOTHING
					`,
					username,
					username+"@example.com",
					i == 0,
					lorem.Sentence(5, 12),
					time.Now(),
				)
				if err != nil {
					panic(err)
				}
				err = auth.SetPassword(ctx, conn, username, "password")
				if err != nil {
					panic(err)
				}
			}

			users, err := bwdata.FetchUsers(ctx, conn, bwdata.UsersQuery{Usernames: usernames})
			if err != nil {
				panic(err)
			}

			for _, user := range users {
				for i := 0; i < 3; i++ {
					_, err := bwdata.CreatePost(ctx, conn, &models.Post{
						AuthorID: user.ID,
						Title:    strings.Title(lorem.Sentence(2, 5)),
						Body:     lorem.Paragraph(2, 5),
						Posted:   time.Now(),
					})
					if err != nil {
						panic(err)
					}
				}

				_, err = conn.Exec(ctx,
					`
					INSERT INTO location (name, description, owner_id, x, y, z)
					VALUES ($1, $2, $3, $4, $5, $6)
					`,
					strings.Title(lorem.Word(3, 10))+" Base",
					lorem.Paragraph(1, 3),
					user.ID,
					uuid.New().ID()%10000,
					64,
					uuid.New().ID()%10000,
				)
				if err != nil {
					panic(err)
				}
			}

			fmt.Printf("Seeded %d users with posts and locations. All passwords are 'password'.\n", len(users))
		},
	}
	adminCommand.AddCommand(seedCommand)
}

func contentRoots() map[string]string {
	media := config.Config.Media
	return map[string]string{
		"posts":     media.PostRoot,
		"profiles":  media.ProfileRoot,
		"locations": media.LocationRoot,
		"static":    media.StaticRoot,
	}
}

func referencedSet(ctx context.Context, conn db.ConnOrTx, kind string, inventory []images.FileInfo) (map[string]struct{}, error) {
	switch kind {
	case "posts":
		return bwdata.PostReferencedSet(ctx, conn)
	case "profiles":
		return bwdata.ProfileReferencedSet(ctx, conn)
	case "locations":
		return bwdata.LocationReferencedSet(ctx, conn)
	default:
		// Static files are referenced by the presentation layer, not the
		// database; treat them all as referenced here.
		referenced := make(map[string]struct{}, len(inventory))
		for _, file := range inventory {
			referenced[file.Name] = struct{}{}
		}
		return referenced, nil
	}
}

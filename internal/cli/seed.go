package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/spf13/cobra"

	"github.com/2beens/portfolio/internal/blog"
	"github.com/2beens/portfolio/internal/projects"
)

type seedParams struct {
	Posts     int
	Projects  int
	AuthorID  string
	Published bool
	Seed      int64
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the store with fake posts and projects",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		params := seedParams{}
		params.Posts, _ = cmd.Flags().GetInt("posts")
		params.Projects, _ = cmd.Flags().GetInt("projects")
		params.Published, _ = cmd.Flags().GetBool("published")
		params.Seed, _ = cmd.Flags().GetInt64("seed")
		authorEmail, _ := cmd.Flags().GetString("author")

		s, err := initServices(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close(cmd.Context())

		if authorEmail != "" {
			author, err := s.users.GetByEmail(cmd.Context(), authorEmail)
			if err != nil {
				return fmt.Errorf("get author %s: %w", authorEmail, err)
			}
			params.AuthorID = author.ID
		}

		return seedContent(cmd.Context(), s.posts, s.projects, params, cmd.OutOrStdout())
	},
}

func init() {
	seedCmd.Flags().Int("posts", 10, "number of blog posts to create")
	seedCmd.Flags().Int("projects", 5, "number of projects to create")
	seedCmd.Flags().Bool("published", true, "publish the created content")
	seedCmd.Flags().Int64("seed", 0, "fake data seed, 0 for random")
	seedCmd.Flags().String("author", "", "email of the posts author")
}

func seedContent(
	ctx context.Context,
	posts *blog.Repo,
	projectsRepo *projects.Repo,
	params seedParams,
	out io.Writer,
) error {
	faker := gofakeit.New(params.Seed)

	status := blog.StatusDraft
	if params.Published {
		status = blog.StatusPublished
	}

	for i := 0; i < params.Posts; i++ {
		post := &blog.Post{
			Title:    strings.TrimSuffix(faker.Sentence(faker.Number(3, 8)), "."),
			Content:  fakeMarkdown(faker),
			Tags:     []string{faker.Hobby(), faker.ProgrammingLanguage()},
			AuthorID: params.AuthorID,
			Status:   status,
		}
		if err := posts.Save(ctx, post); err != nil {
			return fmt.Errorf("save post %d: %w", i, err)
		}
		fmt.Fprintf(out, "post: %s [%s]\n", post.Slug, post.Status)
	}

	for i := 0; i < params.Projects; i++ {
		project := &projects.Project{
			Title:       faker.AppName(),
			Description: faker.Sentence(12),
			Technologies: []string{
				faker.ProgrammingLanguage(),
				faker.ProgrammingLanguage(),
			},
			Links: projects.Links{
				GitHub: "https://github.com/example/" + strings.ToLower(faker.Username()),
				Live:   faker.URL(),
			},
			Featured: i == 0,
			Category: faker.RandomString([]string{"web", "tools", "games"}),
			Order:    i,
			Status:   status,
		}
		if err := projectsRepo.Save(ctx, project); err != nil {
			return fmt.Errorf("save project %d: %w", i, err)
		}
		fmt.Fprintf(out, "project: %s [%s]\n", project.ID, project.Title)
	}

	return nil
}

func fakeMarkdown(faker *gofakeit.Faker) string {
	var sb strings.Builder
	sb.WriteString("## " + faker.HipsterSentence(4) + "\n\n")
	sb.WriteString(faker.Paragraph(2, 4, 12, "\n\n"))
	sb.WriteString("\n\n```go\nfmt.Println(\"" + faker.Word() + "\")\n```\n\n")
	sb.WriteString("- " + faker.Word() + "\n- **" + faker.Word() + "**\n")
	return sb.String()
}

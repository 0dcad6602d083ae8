package seed

import (
	"fmt"
	"log"

	"plume/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	NumComments int
	MaxDays     int
	ShouldClean bool
	// SkipBcrypt stores a plaintext password instead of hashing. Only for
	// throwaway local databases where seeding speed matters.
	SkipBcrypt bool
}

var groupTitles = []string{
	"General", "Movies", "Music", "Television", "Gaming",
	"Fitness", "Hobbies", "Sports", "Technology",
	"Anime", "Books", "Food", "Travel", "Programming",
	"Art", "History", "Philosophy", "Science",
	"Pets", "Finance", "Photography", "Writing",
}

// Seeder populates the database with demo users, groups, posts, comments
// and follow edges.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
	opts    Options
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	if opts.NumUsers <= 0 {
		opts.NumUsers = 50
	}
	if opts.NumPosts <= 0 {
		opts.NumPosts = 200
	}
	if opts.NumComments <= 0 {
		opts.NumComments = opts.NumPosts * 2
	}
	return &Seeder{db: db, factory: NewFactory(db, opts), opts: opts}
}

// ClearAll removes all seeded data. Identity sequences restart so repeated
// seed runs produce stable IDs.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing existing data...")
	sql := `TRUNCATE TABLE follows, comments, posts, groups, users RESTART IDENTITY CASCADE;`
	return s.db.Exec(sql).Error
}

// Run executes the full seeding pass.
func (s *Seeder) Run() error {
	log.Printf("Seeding %d users and %d posts...", s.opts.NumUsers, s.opts.NumPosts)

	users, err := s.seedUsers()
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("Created %d users", len(users))

	groups, err := s.seedGroups()
	if err != nil {
		return fmt.Errorf("failed to create groups: %w", err)
	}
	log.Printf("Created %d groups", len(groups))

	posts, err := s.seedPosts(users, groups)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("Created %d posts", len(posts))

	if err := s.seedComments(users, posts); err != nil {
		return fmt.Errorf("failed to create comments: %w", err)
	}

	if err := s.seedFollows(users); err != nil {
		return fmt.Errorf("failed to create follows: %w", err)
	}

	log.Println("Database seeding completed")
	return nil
}

func (s *Seeder) seedUsers() ([]*models.User, error) {
	users := make([]*models.User, 0, s.opts.NumUsers)

	// A few stable accounts for manual testing.
	for _, name := range []string{"leo", "sphinx", "test"} {
		name := name
		user, err := s.factory.CreateUser(func(u *models.User) {
			u.Username = name
			u.Email = fmt.Sprintf("%s@example.com", name)
		})
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	for i := len(users); i < s.opts.NumUsers; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			log.Printf("Skipping user: %v", err)
			continue
		}
		users = append(users, user)

		if i > 0 && i%100 == 0 {
			log.Printf("Created %d users...", i)
		}
	}
	return users, nil
}

func (s *Seeder) seedGroups() ([]*models.Group, error) {
	groups := make([]*models.Group, 0, len(groupTitles))
	for _, title := range groupTitles {
		group, err := s.factory.CreateGroup(title)
		if err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	return groups, nil
}

func (s *Seeder) seedPosts(users []*models.User, groups []*models.Group) ([]*models.Post, error) {
	r := s.factory.rand
	posts := make([]*models.Post, 0, s.opts.NumPosts)

	const batchSize = 100
	batch := make([]*models.Post, 0, batchSize)
	for i := 0; i < s.opts.NumPosts; i++ {
		user := users[r.Intn(len(users))]

		post := s.factory.BuildPost(user, func(p *models.Post) {
			// Roughly half the posts land in a group.
			if r.Float32() < 0.5 {
				p.GroupID = &groups[r.Intn(len(groups))].ID
			}
		})
		batch = append(batch, post)

		if len(batch) == batchSize {
			if err := s.factory.CreatePostsBatch(batch); err != nil {
				return nil, err
			}
			posts = append(posts, batch...)
			batch = batch[:0]
			log.Printf("Created %d posts...", len(posts))
		}
	}
	if err := s.factory.CreatePostsBatch(batch); err != nil {
		return nil, err
	}
	posts = append(posts, batch...)

	return posts, nil
}

func (s *Seeder) seedComments(users []*models.User, posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	r := s.factory.rand

	for i := 0; i < s.opts.NumComments; i++ {
		user := users[r.Intn(len(users))]
		post := posts[r.Intn(len(posts))]
		if _, err := s.factory.CreateComment(user, post); err != nil {
			return err
		}
	}
	log.Printf("Created %d comments", s.opts.NumComments)
	return nil
}

func (s *Seeder) seedFollows(users []*models.User) error {
	r := s.factory.rand
	created := 0

	// Each user follows a handful of others.
	for _, follower := range users {
		n := r.Intn(6)
		for j := 0; j < n; j++ {
			author := users[r.Intn(len(users))]
			if author.ID == follower.ID {
				continue
			}
			if err := s.factory.CreateFollow(follower, author); err != nil {
				return err
			}
			created++
		}
	}
	log.Printf("Created %d follow edges", created)
	return nil
}

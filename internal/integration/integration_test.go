package integration

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"wisdom-spin/internal/app"
	"wisdom-spin/internal/domain"
	"wisdom-spin/internal/infra/postgres"
	infraredis "wisdom-spin/internal/infra/redis"
	"wisdom-spin/internal/question"
)

func TestRoundUsesCustomBankEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	custom := seedQuestion(t, ctx, pgURL)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	defer redisClient.Close()

	bank := postgres.NewBankLoader(pool)
	if _, err := bank.LoadPool(ctx, domain.LanguageEnglish, domain.CategoryArt); !errors.Is(err, domain.ErrPoolNotFound) {
		t.Fatalf("expected empty art pool, got %v", err)
	}

	loader := question.ChainLoader{
		infraredis.NewBankCache(redisClient, bank, 5*time.Minute),
		question.NewStaticBank(),
	}
	chain := question.NewFallbackChain(question.NewLocalStrategy(loader, nil), nil, question.StaticConnectivity(false), nil)
	service := app.NewGameService(
		infraredis.NewSessionStore(redisClient, 5*time.Minute),
		infraredis.NewPreferenceStore(redisClient),
		chain,
		app.Timing{SpinDuration: 20 * time.Millisecond, RevealDelay: 20 * time.Millisecond, TickInterval: 10 * time.Millisecond, Countdown: 2},
	)

	id, err := service.CreateSession(ctx, domain.LanguageEnglish)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	defer func() { _ = service.Close(ctx, id) }()
	if err := service.SetCategory(ctx, id, domain.CategorySports); err != nil {
		t.Fatalf("set category: %v", err)
	}
	for _, name := range []string{"Alice", "Bob"} {
		if _, ok, err := service.AddParticipant(ctx, id, name); err != nil || !ok {
			t.Fatalf("add %s: ok=%v err=%v", name, ok, err)
		}
	}

	updates, cancel, err := service.Subscribe(ctx, id)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer cancel()

	if ok, err := service.Spin(ctx, id); err != nil || !ok {
		t.Fatalf("spin: ok=%v err=%v", ok, err)
	}

	deadline := time.After(10 * time.Second)
	var revealed domain.GameSnapshot
	for revealed.Round.State != domain.StateAnswerRevealed {
		select {
		case revealed = <-updates:
		case <-deadline:
			t.Fatalf("round did not reach the answer")
		}
	}
	if revealed.Round.Question != custom.Question || revealed.Round.Answer != custom.Answer {
		t.Fatalf("expected the custom sports question, got %+v", revealed.Round)
	}
	if !redisClient.HExists(ctx, "wisdom:bank:en", "sports").Val() {
		t.Fatalf("expected sports pool cached in redis")
	}

	if ok, _ := service.Score(ctx, id, true); !ok {
		t.Fatalf("expected score to apply")
	}
	lb, err := service.Leaderboard(ctx, id)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if lb.Entries[0].ParticipantID != revealed.Round.Winner.ID || lb.Entries[0].Score != 1 {
		t.Fatalf("expected winner leading, got %+v", lb.Entries)
	}

	muted, err := service.ToggleMute(ctx, id)
	if err != nil || !muted {
		t.Fatalf("toggle mute: %v %v", muted, err)
	}
	if v, _ := redisClient.Get(ctx, infraredis.MutedKey).Result(); v != "true" {
		t.Fatalf("expected mute persisted, got %q", v)
	}
}

func seedQuestion(t *testing.T, ctx context.Context, dsn string) domain.BankItem {
	t.Helper()
	db := postgres.OpenDB(dsn)
	defer db.Close()

	if _, err := postgres.Migrate(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	store := postgres.NewCustomStore(db)
	item := domain.BankItem{Question: "How many players are on a football team?", Answer: "Eleven", Explanation: "Per side, on the pitch."}
	row, err := store.Add(ctx, domain.LanguageEnglish, domain.CategorySports, item)
	if err != nil {
		t.Fatalf("add question: %v", err)
	}
	if _, err := store.Add(ctx, domain.LanguageEnglish, domain.CategoryRandom, item); !errors.Is(err, domain.ErrInvalidCategory) {
		t.Fatalf("expected random category rejected, got %v", err)
	}

	extra, err := store.Add(ctx, domain.LanguageArabic, domain.CategoryArt, domain.BankItem{Question: "من رسم الموناليزا؟", Answer: "ليوناردو دافنشي"})
	if err != nil {
		t.Fatalf("add arabic question: %v", err)
	}
	rows, err := store.List(ctx, "", "")
	if err != nil || len(rows) != 2 || rows[0].ID != row.ID {
		t.Fatalf("list: %v %+v", err, rows)
	}
	removed, err := store.Delete(ctx, extra.ID)
	if err != nil || removed.Lang != string(domain.LanguageArabic) || removed.Category != string(domain.CategoryArt) {
		t.Fatalf("delete: %v %+v", err, removed)
	}
	if _, err := store.Delete(ctx, extra.ID); !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
	return row.Item()
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "wisdom", "POSTGRES_PASSWORD": "wisdompass", "POSTGRES_DB": "wisdomdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://wisdom:wisdompass@%s:%s/wisdomdb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(opts), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}

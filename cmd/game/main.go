package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"kelimeoyunu/internal/clock"
	"kelimeoyunu/internal/config"
	"kelimeoyunu/internal/game"
	"kelimeoyunu/internal/leaderboard"
	"kelimeoyunu/internal/models"
	"kelimeoyunu/internal/remote"
	"kelimeoyunu/internal/service"
	"kelimeoyunu/internal/store"
	"kelimeoyunu/internal/wordbank"
)

type app struct {
	cfg      *config.Config
	bank     *wordbank.Bank
	scores   *store.ScoreStore
	profiles *store.ProfileStore
	sessions *store.SessionStore
	client   *remote.Client
	scoreSvc *service.ScoreService
	authSvc  *service.AuthService
	board    *leaderboard.Aggregator
	engine   *game.Engine

	// lines is the single stdin reader; menu prompts and round input
	// both consume from it so no line is lost between modes.
	lines chan string
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()
	a, err := newApp(cfg)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	a.syncRemoteConfig()
	a.buildEngine()
	a.run()
}

func newApp(cfg *config.Config) (*app, error) {
	bank, err := wordbank.Load(cfg.DictionaryPath)
	if err != nil {
		return nil, fmt.Errorf("loading dictionary: %w", err)
	}

	clk := clock.System{}
	scores, err := store.OpenScoreStore(cfg.DataDir, clk)
	if err != nil {
		return nil, fmt.Errorf("opening score store: %w", err)
	}
	profiles, err := store.OpenProfileStore(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("opening profile store: %w", err)
	}
	sessions := store.NewSessionStore(cfg.DataDir)

	a := &app{
		cfg:      cfg,
		bank:     bank,
		scores:   scores,
		profiles: profiles,
		sessions: sessions,
		lines:    make(chan string),
	}
	go func() {
		defer close(a.lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			a.lines <- scanner.Text()
		}
	}()

	if cfg.ScoreBinID != "" {
		a.client = remote.NewClient(cfg.RemoteBaseURL, cfg.RemoteMasterKey, cfg.ScoreBinID, cfg.UserBinID)
		a.scoreSvc = service.NewScoreService(scores, profiles, a.client)
		a.authSvc = service.NewAuthService(a.client, sessions, profiles)
		a.board = leaderboard.New(scores, a.client, profiles, clk)
	} else {
		a.scoreSvc = service.NewScoreService(scores, profiles, nil)
		a.board = leaderboard.New(scores, nil, profiles, clk)
	}
	return a, nil
}

// syncRemoteConfig replaces the local config.json when the published
// document carries a different version. Failures only cost the update.
func (a *app) syncRemoteConfig() {
	if a.client == nil || a.cfg.RemoteConfigURL == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	rc, err := a.client.FetchConfig(ctx, a.cfg.RemoteConfigURL)
	if err != nil {
		log.Printf("WARN: config sync failed: %v", err)
		return
	}
	updated, err := a.cfg.ApplyRemote(rc.Version, rc.Raw)
	if err != nil {
		log.Printf("WARN: applying remote config failed: %v", err)
		return
	}
	if updated {
		fmt.Printf("Ayarlar güncellendi (sürüm %s)\n", rc.Version)
	}
}

func (a *app) run() {
	fmt.Println("=== KELİME OYUNU ===")
	for {
		fmt.Println("\n1) Oyna  2) Skor Tablosu  3) Giriş / Hesap  4) Çıkış")
		switch a.prompt("Seçim: ") {
		case "1":
			a.play()
		case "2":
			a.showLeaderboards()
		case "3":
			a.accountMenu()
		case "4", "q":
			return
		}
	}
}

func (a *app) playerName() string {
	if a.authSvc != nil {
		if id, err := a.authSvc.Current(); err == nil && id != nil {
			return id.Username
		}
	}
	return a.prompt("Oyuncu adı: ")
}

// buildEngine creates the process-wide engine. It runs after the remote
// config sync so the session settings reflect the published document,
// and only once: the engine's used-word exclusion persists across
// sessions for the lifetime of the process.
func (a *app) buildEngine() {
	a.engine = game.New(game.Config{
		Bank:    a.bank,
		Session: a.cfg.SessionConfig(),
	})
}

func (a *app) play() {
	if err := a.engine.StartSession(a.playerName()); err != nil {
		if errors.Is(err, game.ErrExhausted) {
			fmt.Println("Sözlükteki tüm kelimeler oynandı!")
			return
		}
		fmt.Printf("Oyun başlatılamadı: %v\n", err)
		return
	}

	for a.engine.State() != game.StateSessionComplete {
		a.playRound(a.engine)

		result, err := a.engine.Advance()
		if err != nil {
			fmt.Printf("Hata: %v\n", err)
			return
		}
		if result != nil {
			a.finishSession(result)
			return
		}
	}
}

// playRound runs one round to resolution, multiplexing the 1 Hz
// countdown with player input.
func (a *app) playRound(engine *game.Engine) {
	fmt.Printf("\n%d harfli kelime — %s\n", engine.WordLength(), engine.Definition())
	fmt.Printf("%s   (puan: %d, süre: %d sn)\n", engine.Masked(), engine.Potential(), engine.TimeLeft())
	fmt.Println("Cevabı yazın, ipucu için /ipucu")

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for engine.State() == game.StateRoundActive {
		select {
		case <-ticker.C:
			tick := engine.Tick()
			if tick.TimedOut {
				fmt.Println("\nSüre doldu!")
				return
			}
			if tick.TimeLeft <= 5 {
				fmt.Printf("Süre: %d\n", tick.TimeLeft)
			}
		case line, ok := <-a.lines:
			if !ok {
				return
			}
			a.handleInput(engine, line)
		}
	}
}

func (a *app) handleInput(engine *game.Engine, line string) {
	if strings.TrimSpace(line) == "/ipucu" {
		hint, err := engine.RequestHint()
		if err != nil {
			fmt.Printf("İpucu alınamadı: %v\n", err)
			return
		}
		fmt.Printf("İpucu: %s   %s (kalan puan: %d)\n", hint.Letter, engine.Masked(), hint.Potential)
		if hint.AllRevealed {
			fmt.Println("Tüm harfler açıldı, bu tur puan yok.")
		}
		return
	}

	result, err := engine.SubmitAnswer(line)
	if err != nil {
		fmt.Printf("Hata: %v\n", err)
		return
	}
	if result.Correct {
		fmt.Printf("Doğru! +%d puan (toplam %d)\n", result.Earned, engine.TotalScore())
	} else {
		fmt.Println("Yanlış, tekrar deneyin.")
	}
}

func (a *app) finishSession(result *models.SessionResult) {
	fmt.Printf("\nOyun bitti! %s — %d puan, süre %02d:%02d\n",
		result.PlayerName, result.TotalScore,
		result.ElapsedSeconds/60, result.ElapsedSeconds%60)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	done, err := a.scoreSvc.RecordResult(ctx, *result)
	if err != nil {
		fmt.Printf("Skor kaydedilemedi: %v\n", err)
		return
	}
	if a.client != nil {
		fmt.Println("Skor gönderiliyor...")
		if err := <-done; err != nil {
			fmt.Println("Skor yerel olarak kaydedildi, sunucuya ulaşılamadı.")
		} else {
			fmt.Println("Skor dünya sıralamasına gönderildi.")
		}
	}
	a.showLeaderboards()
}

func (a *app) showLeaderboards() {
	window := a.chooseWindow()

	fmt.Println("\n--- Yerel Skorlar ---")
	printScores(a.board.Local(window))

	if a.client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	global, err := a.board.Global(ctx, window)
	if err != nil {
		fmt.Println("Dünya sıralaması alınamadı, yalnızca yerel skorlar gösteriliyor.")
		return
	}
	fmt.Println("\n--- Dünya Sıralaması ---")
	printScores(global)
}

func (a *app) chooseWindow() models.Window {
	fmt.Println("\n1) Bugün  2) Bu Hafta  3) Bu Ay  4) Tüm Zamanlar")
	switch a.prompt("Dönem: ") {
	case "1":
		return models.Daily
	case "2":
		return models.Weekly
	case "3":
		return models.Monthly
	default:
		return models.AllTime
	}
}

func printScores(records []models.ScoreRecord) {
	if len(records) == 0 {
		fmt.Println("Henüz skor yok.")
		return
	}
	for i, r := range records {
		name := r.Name
		if r.Fullname != "" {
			name = fmt.Sprintf("%s (%s)", r.Fullname, r.Name)
		}
		line := fmt.Sprintf("%2d. %-30s %5d puan  %s", i+1, name, r.Score, r.ElapsedDisplay())
		if r.School != "" {
			line += "  " + r.School
		}
		fmt.Println(line)
	}
}

func (a *app) accountMenu() {
	if a.authSvc == nil || a.client == nil {
		fmt.Println("Çevrimiçi hesap için sunucu ayarları gerekli.")
		return
	}
	if id, err := a.authSvc.Current(); err == nil && id != nil {
		fmt.Printf("Giriş yapıldı: %s\n", id.Username)
		if a.prompt("Çıkış yapılsın mı? (e/h): ") == "e" {
			if err := a.authSvc.Logout(); err != nil {
				fmt.Printf("Çıkış yapılamadı: %v\n", err)
			}
		}
		return
	}

	fmt.Println("1) Giriş  2) Kayıt  3) Şifremi Unuttum")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	switch a.prompt("Seçim: ") {
	case "1":
		username := a.prompt("Kullanıcı adı: ")
		password := a.prompt("Şifre: ")
		if err := a.authSvc.Login(ctx, username, password); err != nil {
			fmt.Printf("Giriş başarısız: %v\n", err)
			return
		}
		fmt.Println("Hoş geldiniz,", username)
	case "2":
		username := a.prompt("Kullanıcı adı: ")
		password := a.prompt("Şifre: ")
		question := a.prompt("Güvenlik sorusu: ")
		answer := a.prompt("Cevabı: ")
		profile := models.Profile{
			Fullname:   a.prompt("Ad soyad (boş geçilebilir): "),
			School:     a.prompt("Okul (boş geçilebilir): "),
			ClassLevel: a.prompt("Sınıf (boş geçilebilir): "),
		}
		if err := a.authSvc.Register(ctx, username, password, question, answer, profile); err != nil {
			fmt.Printf("Kayıt başarısız: %v\n", err)
			return
		}
		fmt.Println("Kayıt tamamlandı, hoş geldiniz!")
	case "3":
		username := a.prompt("Kullanıcı adı: ")
		question, err := a.authSvc.SecurityQuestion(ctx, username)
		if err != nil {
			fmt.Printf("Hesap bulunamadı: %v\n", err)
			return
		}
		fmt.Println("Güvenlik sorusu:", question)
		answer := a.prompt("Cevabı: ")
		newPassword := a.prompt("Yeni şifre: ")
		if err := a.authSvc.ResetPassword(ctx, username, answer, newPassword); err != nil {
			fmt.Printf("Şifre sıfırlanamadı: %v\n", err)
			return
		}
		fmt.Println("Şifre güncellendi, giriş yapabilirsiniz.")
	}
}

func (a *app) prompt(label string) string {
	fmt.Print(label)
	line, ok := <-a.lines
	if !ok {
		return ""
	}
	return strings.TrimSpace(line)
}

package keys

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/verte-zerg/barkeep/internal/waybar"
)

// Kaomoji animation sets shown while keystrokes are hidden. Each set tells
// an eight-frame story; one frame advances per keypress.
var animationSets = [][]string{
	{
		"( =^･ω･^)  🦋",
		"( =^･ω･^) 🦋",
		"ฅ(=^･ω･^=)ฅ 🦋",
		"ฅ(=^･ω･^=)🦋",
		"( =^･ω･^) ✨",
		"( ˶ᵔ ᵕ ᵔ˶ ) ✨",
		"( =^･ω･^) 🌸",
		"( ˘ω˘ )ｽﾔｧ 💤",
	},
	{
		"♪ ヽ(°〇°)ﾉ ♪",
		"♫ ٩(◕‿◕)۶ ♫",
		"🎵 ＼(^o^)／ 🎵",
		"✨ (ﾉ◕ヮ◕)ﾉ*:･ﾟ✧",
		"🌟 ♪(´▽｀) 🌟",
		"💫 ~(˘▾˘)~ 💫",
		"🎶 ლ(╹◡╹ლ) 🎶",
		"✨ (˘▾˘)~ ✨ zzz",
	},
	{
		"( ˶ᵔ ᵕ ᵔ˶ )",
		"( ˶ᵔ ᵕ ᵔ˶ ) 💝",
		"( ˘ ³˘) 💕",
		"( ˘ ³˘)♥ 💕",
		"💕 ♥ 💕",
		"✨💖✨",
		"( ◕ ω ◕ ) 💖",
		"( ˘▾˘)~ 💕💤",
	},
}

var animationNames = []string{
	"catching butterflies",
	"dancing party",
	"love story",
}

var artColors = []string{"#ff69b4", "#ffd700", "#98fb98", "#87ceeb", "#dda0dd", "#f0e68c"}

// PasswordMode hides keystrokes behind a kaomoji animation. Enabling it
// picks a random animation set; every keypress advances one frame.
type PasswordMode struct {
	mu     sync.Mutex
	active bool
	setIdx int
	frame  int
	rng    *rand.Rand
}

// NewPasswordMode builds a PasswordMode seeded from the given source.
func NewPasswordMode(seed int64) *PasswordMode {
	return &PasswordMode{rng: rand.New(rand.NewSource(seed))}
}

// Active reports whether keystrokes are currently hidden.
func (p *PasswordMode) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// Enable turns hiding on and restarts the animation with a random set.
func (p *PasswordMode) Enable() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.active = true
	p.setIdx = p.rng.Intn(len(animationSets))
	p.frame = 0
}

// Disable turns hiding off.
func (p *PasswordMode) Disable() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.active = false
}

// Toggle flips the mode and reports the new state.
func (p *PasswordMode) Toggle() bool {
	if p.Active() {
		p.Disable()
		return false
	}
	p.Enable()
	return true
}

// Advance steps the animation one frame on a keypress.
func (p *PasswordMode) Advance() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.frame++
}

// Frame returns the current animation frame. The first frame carries the
// story name so the viewer knows which animation is running.
func (p *PasswordMode) Frame() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	set := animationSets[p.setIdx]
	art := set[p.frame%len(set)]
	if p.frame == 0 {
		art = fmt.Sprintf("%s (%s)", art, animationNames[p.setIdx])
	}
	return art
}

// WaybarFrame renders the current frame as a waybar JSON line, tinted with a
// random pastel color. wpmTip may be empty.
func (p *PasswordMode) WaybarFrame(wpmTip string) string {
	art := p.Frame()

	p.mu.Lock()
	color := artColors[p.rng.Intn(len(artColors))]
	p.mu.Unlock()

	tooltip := "Password mode active - keystrokes are hidden 🔒"
	if wpmTip != "" {
		tooltip += " | " + wpmTip
	}
	return waybar.Output{
		Text:    fmt.Sprintf(`<span weight="bold" size="large" color="%s">%s</span>`, color, waybar.Escape(art)),
		Tooltip: tooltip,
	}.Line()
}

// PlainFrame renders the current frame without markup.
func (p *PasswordMode) PlainFrame() string {
	return p.Frame()
}

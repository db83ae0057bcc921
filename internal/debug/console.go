package debug

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Versifine/stride/internal/input"
	"github.com/Versifine/stride/internal/movement"
	"github.com/Versifine/stride/internal/pose"
	"github.com/Versifine/stride/internal/world"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/term"
)

const (
	defaultTickRate  = 60
	defaultMovePulse = 180 * time.Millisecond
	// raw look delta per arrow press, in pointer units
	lookStep = float32(80)
)

type ControlledBody interface {
	Sampler() *input.Sampler
	State() movement.State
	Pose() pose.Pose
	Teleport(pos mgl32.Vec3)
}

// Stepper advances the simulation, normally a sim.Runner.
type Stepper interface {
	Step(dt float32) error
}

type StateProvider interface {
	GetState() world.Snapshot
}

type BlockQuerier interface {
	GetBlockState(x, y, z int) (int32, bool)
	GetBlockNameByStateID(stateID int32) (string, bool)
}

type Console struct {
	body          ControlledBody
	stepper       Stepper
	stateProvider StateProvider
	blockQuerier  BlockQuerier
	tickRate      int
	movePulse     time.Duration
	out           io.Writer

	mu            sync.Mutex
	keys          input.Keys
	forwardUntil  time.Time
	backwardUntil time.Time
	leftUntil     time.Time
	rightUntil    time.Time
	jumpUntil     time.Time
	commandMode   bool
	commandBuf    []rune
	statusWidth   int
}

func NewConsole(body ControlledBody, stepper Stepper, stateProvider StateProvider, blockQuerier BlockQuerier, tickRate int) *Console {
	if tickRate <= 0 {
		tickRate = defaultTickRate
	}
	return &Console{
		body:          body,
		stepper:       stepper,
		stateProvider: stateProvider,
		blockQuerier:  blockQuerier,
		tickRate:      tickRate,
		movePulse:     defaultMovePulse,
		out:           os.Stdout,
	}
}

func (c *Console) Start(ctx context.Context) error {
	if c == nil {
		return fmt.Errorf("console is nil")
	}
	if c.body == nil {
		return fmt.Errorf("console body is nil")
	}
	if c.stepper == nil {
		return fmt.Errorf("console stepper is nil")
	}
	if c.stateProvider == nil {
		return fmt.Errorf("console state provider is nil")
	}
	if c.blockQuerier == nil {
		return fmt.Errorf("console block querier is nil")
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("set terminal raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
		fmt.Fprint(c.out, "\r\n")
	}()

	fmt.Fprint(c.out, "[debug] console started (W/A/S/D pulse, Space jump, C crouch, arrows look, G grab, X clear, : command)\r\n")
	c.renderStatusLine()

	go c.tickLoop(ctx)

	reader := bufio.NewReader(os.Stdin)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		b, err := reader.ReadByte()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read console input: %w", err)
		}
		if b == 3 { // Ctrl+C never reaches the signal handler in raw mode
			return nil
		}
		c.handleKey(reader, b)
	}
}

func (c *Console) tickLoop(ctx context.Context) {
	ticker := time.NewTicker(time.Second / time.Duration(c.tickRate))
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			c.body.Sampler().SetKeys(c.currentKeys(now))
			dt := float32(now.Sub(last).Seconds())
			last = now
			if err := c.stepper.Step(dt); err != nil {
				slog.Debug("debug tick failed", "error", err)
			}
			c.renderStatusLine()
		}
	}
}

// byteReader is the part of bufio.Reader the key handler needs.
type byteReader interface {
	ReadByte() (byte, error)
}

func (c *Console) handleKey(reader byteReader, b byte) {
	if c.isCommandMode() {
		c.handleCommandByte(b)
		return
	}

	switch b {
	case ':':
		c.enterCommandMode()
		return
	case 'w', 'W':
		c.pulse(&c.keys.Forward, &c.forwardUntil, &c.keys.Back, &c.backwardUntil)
	case 's', 'S':
		c.pulse(&c.keys.Back, &c.backwardUntil, &c.keys.Forward, &c.forwardUntil)
	case 'a', 'A':
		c.pulse(&c.keys.Left, &c.leftUntil, &c.keys.Right, &c.rightUntil)
	case 'd', 'D':
		c.pulse(&c.keys.Right, &c.rightUntil, &c.keys.Left, &c.leftUntil)
	case ' ':
		c.pulse(&c.keys.Jump, &c.jumpUntil, nil, nil)
	case 'c', 'C':
		c.toggleCrouch()
	case 'g', 'G':
		c.toggleGrab()
	case 'x', 'X':
		c.clearInput()
	case 27: // ESC + arrow sequence
		next, err := reader.ReadByte()
		if err != nil || next != '[' {
			return
		}
		arrow, err := reader.ReadByte()
		if err != nil {
			return
		}
		sampler := c.body.Sampler()
		switch arrow {
		case 'D': // left
			sampler.Look(-lookStep, 0)
		case 'C': // right
			sampler.Look(lookStep, 0)
		case 'A': // up
			sampler.Look(0, -lookStep)
		case 'B': // down
			sampler.Look(0, lookStep)
		}
	}
	c.renderStatusLine()
}

func (c *Console) enterCommandMode() {
	c.mu.Lock()
	c.commandMode = true
	c.commandBuf = c.commandBuf[:0]
	c.mu.Unlock()
	fmt.Fprint(c.out, "\r\n:")
}

func (c *Console) handleCommandByte(b byte) {
	switch b {
	case 13, 10: // Enter
		c.mu.Lock()
		cmd := strings.TrimSpace(string(c.commandBuf))
		c.commandMode = false
		c.commandBuf = c.commandBuf[:0]
		c.mu.Unlock()

		fmt.Fprint(c.out, "\r\n")
		if cmd != "" {
			c.executeCommand(cmd)
		}
		c.renderStatusLine()
		return
	case 27: // ESC cancel command mode
		c.mu.Lock()
		c.commandMode = false
		c.commandBuf = c.commandBuf[:0]
		c.mu.Unlock()
		fmt.Fprint(c.out, "\r\n[debug] command cancelled\r\n")
		c.renderStatusLine()
		return
	case 8, 127: // Backspace
		c.mu.Lock()
		if len(c.commandBuf) > 0 {
			c.commandBuf = c.commandBuf[:len(c.commandBuf)-1]
		}
		buf := string(c.commandBuf)
		c.mu.Unlock()
		fmt.Fprintf(c.out, "\r:%s ", buf)
		fmt.Fprintf(c.out, "\r:%s", buf)
		return
	default:
		if b < 32 || b > 126 {
			return
		}
		c.mu.Lock()
		c.commandBuf = append(c.commandBuf, rune(b))
		buf := string(c.commandBuf)
		c.mu.Unlock()
		fmt.Fprintf(c.out, "\r:%s", buf)
	}
}

func (c *Console) executeCommand(cmd string) {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return
	}

	switch parts[0] {
	case "help":
		c.printHelp()
	case "state":
		s := c.body.State()
		fmt.Fprintf(c.out, "[debug] %s pos=(%.3f,%.3f,%.3f) vel=(%.3f,%.3f,%.3f) height=%.3f ground_tick=%d\r\n",
			s.Phase,
			s.Position.X(), s.Position.Y(), s.Position.Z(),
			s.Velocity.X(), s.Velocity.Y(), s.Velocity.Z(),
			s.Height, s.GroundTick,
		)
	case "pose":
		fmt.Fprintf(c.out, "[debug] %s\r\n", c.body.Pose())
	case "snap":
		fmt.Fprintf(c.out, "[debug] %s\r\n", c.stateProvider.GetState().String())
	case "tp":
		pos, ok := parseVec(parts)
		if !ok {
			fmt.Fprintf(c.out, "[debug] usage: :tp <x> <y> <z>\r\n")
			return
		}
		c.body.Teleport(pos)
		fmt.Fprintf(c.out, "[debug] teleported to (%.3f, %.3f, %.3f)\r\n", pos.X(), pos.Y(), pos.Z())
	case "block":
		if len(parts) != 4 {
			fmt.Fprintf(c.out, "[debug] usage: :block <x> <y> <z>\r\n")
			return
		}
		x, err1 := strconv.Atoi(parts[1])
		y, err2 := strconv.Atoi(parts[2])
		z, err3 := strconv.Atoi(parts[3])
		if err1 != nil || err2 != nil || err3 != nil {
			fmt.Fprintf(c.out, "[debug] invalid block args\r\n")
			return
		}
		stateID, ok := c.blockQuerier.GetBlockState(x, y, z)
		if !ok {
			fmt.Fprintf(c.out, "[debug] block (%d,%d,%d): unloaded\r\n", x, y, z)
			return
		}
		name, _ := c.blockQuerier.GetBlockNameByStateID(stateID)
		fmt.Fprintf(c.out, "[debug] block (%d,%d,%d): %s state_id=%d\r\n", x, y, z, name, stateID)
	case "look":
		target, ok := parseVec(parts)
		if !ok {
			fmt.Fprintf(c.out, "[debug] usage: :look <x> <y> <z>\r\n")
			return
		}
		c.lookAt(target)
		fmt.Fprintf(c.out, "[debug] look at (%.3f, %.3f, %.3f)\r\n", target.X(), target.Y(), target.Z())
	default:
		fmt.Fprintf(c.out, "[debug] unknown command: %s\r\n", parts[0])
	}
}

func parseVec(parts []string) (mgl32.Vec3, bool) {
	if len(parts) != 4 {
		return mgl32.Vec3{}, false
	}
	var v mgl32.Vec3
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(parts[i+1], 32)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return mgl32.Vec3{}, false
		}
		v[i] = float32(f)
	}
	return v, true
}

// lookAt points the view from the eye at target. Forward is -Z rotated by
// yaw about +Y, and positive pitch looks up.
func (c *Console) lookAt(target mgl32.Vec3) {
	d := target.Sub(c.body.Pose().Eye)
	yaw := float32(math.Atan2(float64(-d.X()), float64(-d.Z())))
	horizontal := math.Hypot(float64(d.X()), float64(d.Z()))
	pitch := float32(math.Atan2(float64(d.Y()), horizontal))
	c.body.Sampler().Reset(pitch, yaw)
}

func (c *Console) printHelp() {
	fmt.Fprint(c.out, "[debug] keys:\r\n")
	fmt.Fprint(c.out, "  W/S/A/D: pulse movement (~180ms)\r\n")
	fmt.Fprint(c.out, "  Space: jump\r\n")
	fmt.Fprint(c.out, "  C: toggle crouch\r\n")
	fmt.Fprint(c.out, "  Arrows: look\r\n")
	fmt.Fprint(c.out, "  G: toggle input grab\r\n")
	fmt.Fprint(c.out, "  X: clear all input\r\n")
	fmt.Fprint(c.out, "  : enter command mode\r\n")
	fmt.Fprint(c.out, "[debug] commands:\r\n")
	fmt.Fprint(c.out, "  :look <x> <y> <z>\r\n")
	fmt.Fprint(c.out, "  :block <x> <y> <z>\r\n")
	fmt.Fprint(c.out, "  :tp <x> <y> <z>\r\n")
	fmt.Fprint(c.out, "  :state\r\n")
	fmt.Fprint(c.out, "  :pose\r\n")
	fmt.Fprint(c.out, "  :snap\r\n")
	fmt.Fprint(c.out, "  :help\r\n")
}

func (c *Console) renderStatusLine() {
	c.mu.Lock()
	if c.commandMode {
		c.mu.Unlock()
		return
	}
	keys := c.keys
	width := c.statusWidth
	c.mu.Unlock()

	s := c.body.State()
	grab := c.body.Sampler().Enabled()

	line := fmt.Sprintf(
		"[FWD:%s CRH:%s JMP:%s GRAB:%s | YAW:%.2f PIT:%.2f | X:%.2f Y:%.2f Z:%.2f H:%.2f %s]",
		boolLabel(keys.Forward),
		boolLabel(keys.Crouch),
		boolLabel(keys.Jump),
		boolLabel(grab),
		s.Yaw,
		s.Pitch,
		s.Position.X(),
		s.Position.Y(),
		s.Position.Z(),
		s.Height,
		s.Phase,
	)

	padding := ""
	if width > len(line) {
		padding = strings.Repeat(" ", width-len(line))
	}
	fmt.Fprintf(c.out, "\r%s%s", line, padding)

	c.mu.Lock()
	if len(line) > c.statusWidth {
		c.statusWidth = len(line)
	}
	c.mu.Unlock()
}

// pulse holds a key for movePulse and releases its opposite.
func (c *Console) pulse(key *bool, until *time.Time, opposite *bool, oppositeUntil *time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	*key = true
	*until = time.Now().Add(c.movePulse)
	if opposite != nil {
		*opposite = false
		*oppositeUntil = time.Time{}
	}
}

func (c *Console) currentKeys(now time.Time) input.Keys {
	c.mu.Lock()
	defer c.mu.Unlock()
	expire(&c.keys.Forward, &c.forwardUntil, now)
	expire(&c.keys.Back, &c.backwardUntil, now)
	expire(&c.keys.Left, &c.leftUntil, now)
	expire(&c.keys.Right, &c.rightUntil, now)
	expire(&c.keys.Jump, &c.jumpUntil, now)
	return c.keys
}

func expire(key *bool, until *time.Time, now time.Time) {
	if !until.IsZero() && !now.Before(*until) {
		*key = false
		*until = time.Time{}
	}
}

func (c *Console) isCommandMode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.commandMode
}

func boolLabel(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func (c *Console) toggleCrouch() {
	c.mu.Lock()
	c.keys.Crouch = !c.keys.Crouch
	enabled := c.keys.Crouch
	c.mu.Unlock()
	slog.Debug("debug crouch toggled", "enabled", enabled)
}

func (c *Console) toggleGrab() {
	sampler := c.body.Sampler()
	enabled := !sampler.Enabled()
	sampler.SetEnabled(enabled)
	slog.Debug("debug input grab toggled", "enabled", enabled)
}

func (c *Console) clearInput() {
	c.mu.Lock()
	c.keys = input.Keys{}
	c.forwardUntil = time.Time{}
	c.backwardUntil = time.Time{}
	c.leftUntil = time.Time{}
	c.rightUntil = time.Time{}
	c.jumpUntil = time.Time{}
	c.mu.Unlock()
}

// Package signature turns freehand signature strokes into a transparent
// raster that can be stamped onto a PDF page.
package signature

import (
	"fmt"
	"strconv"
)

// Point is a position in page space: origin top-left, y pointing down.
type Point struct {
	X, Y float64
}

// Curves are flattened into this many line segments.
const (
	cubicSteps = 16
	quadSteps  = 12
)

// ParsePath reads an SVG path "d" attribute and flattens it into polylines,
// one per subpath. Arcs are approximated by a straight line to their end point.
func ParsePath(d string) ([][]Point, error) {
	sc := &scanner{s: d}
	var (
		out          [][]Point
		cur          []Point
		pos, start   Point
		lastCtrl     Point
		prevCmd, cmd byte
	)
	flush := func() {
		if len(cur) > 0 {
			out = append(out, cur)
		}
		cur = nil
	}
	lineTo := func(p Point) {
		if len(cur) == 0 {
			cur = append(cur, pos)
		}
		cur = append(cur, p)
		pos = p
	}

	for {
		sc.skipSeparators()
		if sc.eof() {
			break
		}
		if c := sc.peek(); isCommand(c) {
			cmd = c
			sc.i++
		} else if cmd == 0 {
			return nil, fmt.Errorf("path offset %d: number without command", sc.i)
		}

		rel := cmd >= 'a'
		base := Point{}
		if rel {
			base = pos
		}
		var nums []float64
		var err error

		switch cmd {
		case 'M', 'm':
			if nums, err = sc.numbers(2); err != nil {
				return nil, err
			}
			flush()
			pos = Point{base.X + nums[0], base.Y + nums[1]}
			start = pos
			cur = []Point{pos}
			// Further pairs are implicit line-tos.
			if rel {
				cmd = 'l'
			} else {
				cmd = 'L'
			}
		case 'L', 'l':
			if nums, err = sc.numbers(2); err != nil {
				return nil, err
			}
			lineTo(Point{base.X + nums[0], base.Y + nums[1]})
		case 'H', 'h':
			if nums, err = sc.numbers(1); err != nil {
				return nil, err
			}
			lineTo(Point{base.X + nums[0], pos.Y})
		case 'V', 'v':
			if nums, err = sc.numbers(1); err != nil {
				return nil, err
			}
			lineTo(Point{pos.X, base.Y + nums[0]})
		case 'C', 'c':
			if nums, err = sc.numbers(6); err != nil {
				return nil, err
			}
			c1 := Point{base.X + nums[0], base.Y + nums[1]}
			c2 := Point{base.X + nums[2], base.Y + nums[3]}
			end := Point{base.X + nums[4], base.Y + nums[5]}
			cubic(pos, c1, c2, end, lineTo)
			lastCtrl = c2
		case 'S', 's':
			if nums, err = sc.numbers(4); err != nil {
				return nil, err
			}
			c1 := pos
			if isCubic(prevCmd) {
				c1 = reflect(lastCtrl, pos)
			}
			c2 := Point{base.X + nums[0], base.Y + nums[1]}
			end := Point{base.X + nums[2], base.Y + nums[3]}
			cubic(pos, c1, c2, end, lineTo)
			lastCtrl = c2
		case 'Q', 'q':
			if nums, err = sc.numbers(4); err != nil {
				return nil, err
			}
			c := Point{base.X + nums[0], base.Y + nums[1]}
			end := Point{base.X + nums[2], base.Y + nums[3]}
			quad(pos, c, end, lineTo)
			lastCtrl = c
		case 'T', 't':
			if nums, err = sc.numbers(2); err != nil {
				return nil, err
			}
			c := pos
			if isQuad(prevCmd) {
				c = reflect(lastCtrl, pos)
			}
			end := Point{base.X + nums[0], base.Y + nums[1]}
			quad(pos, c, end, lineTo)
			lastCtrl = c
		case 'A', 'a':
			if nums, err = sc.numbers(7); err != nil {
				return nil, err
			}
			lineTo(Point{base.X + nums[5], base.Y + nums[6]})
		case 'Z', 'z':
			if len(cur) > 0 {
				lineTo(start)
			}
			flush()
			pos = start
			prevCmd = cmd
			// A number directly after Z has no command to repeat.
			cmd = 0
			continue
		default:
			return nil, fmt.Errorf("path offset %d: unsupported command %q", sc.i-1, cmd)
		}
		prevCmd = cmd
	}
	flush()
	return out, nil
}

func cubic(p0, p1, p2, p3 Point, lineTo func(Point)) {
	for i := 1; i <= cubicSteps; i++ {
		t := float64(i) / cubicSteps
		u := 1 - t
		lineTo(Point{
			X: u*u*u*p0.X + 3*u*u*t*p1.X + 3*u*t*t*p2.X + t*t*t*p3.X,
			Y: u*u*u*p0.Y + 3*u*u*t*p1.Y + 3*u*t*t*p2.Y + t*t*t*p3.Y,
		})
	}
}

func quad(p0, p1, p2 Point, lineTo func(Point)) {
	for i := 1; i <= quadSteps; i++ {
		t := float64(i) / quadSteps
		u := 1 - t
		lineTo(Point{
			X: u*u*p0.X + 2*u*t*p1.X + t*t*p2.X,
			Y: u*u*p0.Y + 2*u*t*p1.Y + t*t*p2.Y,
		})
	}
}

func reflect(ctrl, about Point) Point {
	return Point{2*about.X - ctrl.X, 2*about.Y - ctrl.Y}
}

func isCubic(c byte) bool { return c == 'C' || c == 'c' || c == 'S' || c == 's' }
func isQuad(c byte) bool  { return c == 'Q' || c == 'q' || c == 'T' || c == 't' }

func isCommand(c byte) bool {
	switch c {
	case 'M', 'm', 'L', 'l', 'H', 'h', 'V', 'v', 'C', 'c', 'S', 's',
		'Q', 'q', 'T', 't', 'A', 'a', 'Z', 'z':
		return true
	}
	return false
}

type scanner struct {
	s string
	i int
}

func (sc *scanner) eof() bool  { return sc.i >= len(sc.s) }
func (sc *scanner) peek() byte { return sc.s[sc.i] }

func (sc *scanner) skipSeparators() {
	for !sc.eof() {
		switch sc.peek() {
		case ' ', '\t', '\n', '\r', ',':
			sc.i++
		default:
			return
		}
	}
}

func (sc *scanner) numbers(n int) ([]float64, error) {
	out := make([]float64, n)
	for k := range out {
		sc.skipSeparators()
		v, err := sc.number()
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

// number reads one SVG number. "1.5.5" is two numbers and "-1-2" is two.
func (sc *scanner) number() (float64, error) {
	begin := sc.i
	if !sc.eof() && (sc.peek() == '+' || sc.peek() == '-') {
		sc.i++
	}
	digits := sc.digits()
	if !sc.eof() && sc.peek() == '.' {
		sc.i++
		digits += sc.digits()
	}
	if digits == 0 {
		sc.i = begin
		return 0, fmt.Errorf("path offset %d: expected number", begin)
	}
	if !sc.eof() && (sc.peek() == 'e' || sc.peek() == 'E') {
		mark := sc.i
		sc.i++
		if !sc.eof() && (sc.peek() == '+' || sc.peek() == '-') {
			sc.i++
		}
		if sc.digits() == 0 {
			sc.i = mark
		}
	}
	v, err := strconv.ParseFloat(sc.s[begin:sc.i], 64)
	if err != nil {
		return 0, fmt.Errorf("path offset %d: %w", begin, err)
	}
	return v, nil
}

func (sc *scanner) digits() int {
	n := 0
	for !sc.eof() && sc.peek() >= '0' && sc.peek() <= '9' {
		sc.i++
		n++
	}
	return n
}

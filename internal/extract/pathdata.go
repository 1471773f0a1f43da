package extract

import (
	"fmt"
	"strconv"

	"github.com/ironsheep/captcha-match/internal/geometry"
)

// PathParser converts an SVG path data string ("d" attribute) into a point
// cloud. Implementations must be safe for concurrent use.
type PathParser interface {
	Parse(d string) (geometry.PointCloud, error)
}

// pathDataParser is the default PathParser. It implements a small explicit
// grammar over the SVG path commands M, L, H, V, C, S, Q, T, A and Z in both
// absolute and relative forms, resolving every coordinate to absolute space.
//
// Per the package curve policy, curve control points are emitted as cloud
// vertices and arcs contribute only their endpoint.
type pathDataParser struct{}

// NewPathParser returns the default path data parser.
func NewPathParser() PathParser {
	return pathDataParser{}
}

// argsPerCommand maps a (normalized, upper-case) command letter to the number
// of numeric arguments one repetition consumes.
var argsPerCommand = map[byte]int{
	'M': 2, 'L': 2, 'H': 1, 'V': 1,
	'C': 6, 'S': 4, 'Q': 4, 'T': 2,
	'A': 7, 'Z': 0,
}

func (pathDataParser) Parse(d string) (geometry.PointCloud, error) {
	lex := &pathLexer{src: d}
	var (
		cloud geometry.PointCloud
		cur   geometry.Point
		start geometry.Point
	)

	for {
		cmd, ok, err := lex.nextCommand()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}

		upper := cmd
		relative := cmd >= 'a' && cmd <= 'z'
		if relative {
			upper = cmd - 'a' + 'A'
		}
		argc, known := argsPerCommand[upper]
		if !known {
			return nil, fmt.Errorf("unsupported path command %q", string(cmd))
		}

		if upper == 'Z' {
			cur = start
			continue
		}

		// A command letter may be followed by several repetitions of its
		// argument group; after the first group, M repeats as implicit L.
		first := true
		for first || lex.peekNumber() {
			args, err := lex.numbers(argc)
			if err != nil {
				return nil, fmt.Errorf("command %q: %w", string(cmd), err)
			}

			abs := func(i int) geometry.Point {
				p := geometry.Point{X: args[i], Y: args[i+1]}
				if relative {
					p.X += cur.X
					p.Y += cur.Y
				}
				return p
			}

			switch upper {
			case 'M':
				p := abs(0)
				cloud = append(cloud, p)
				cur = p
				if first {
					start = p
				}
			case 'L', 'T':
				p := abs(0)
				cloud = append(cloud, p)
				cur = p
			case 'H':
				p := geometry.Point{X: args[0], Y: cur.Y}
				if relative {
					p.X = cur.X + args[0]
				}
				cloud = append(cloud, p)
				cur = p
			case 'V':
				p := geometry.Point{X: cur.X, Y: args[0]}
				if relative {
					p.Y = cur.Y + args[0]
				}
				cloud = append(cloud, p)
				cur = p
			case 'C':
				c1, c2, end := abs(0), abs(2), abs(4)
				cloud = append(cloud, c1, c2, end)
				cur = end
			case 'S', 'Q':
				c1, end := abs(0), abs(2)
				cloud = append(cloud, c1, end)
				cur = end
			case 'A':
				// rx ry rotation large-arc sweep x y: endpoint only.
				end := geometry.Point{X: args[5], Y: args[6]}
				if relative {
					end.X += cur.X
					end.Y += cur.Y
				}
				cloud = append(cloud, end)
				cur = end
			}
			first = false
		}
	}

	return cloud, nil
}

// pathLexer tokenizes path data into command letters and numbers. Separators
// are whitespace and commas; a '-' or a second '.' also terminates the
// preceding number, per the SVG grammar.
type pathLexer struct {
	src string
	pos int
}

func (l *pathLexer) skipSeparators() {
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case ' ', '\t', '\n', '\r', ',':
			l.pos++
		default:
			return
		}
	}
}

// nextCommand returns the next command letter, or ok=false at end of input.
// A number where a command is expected is an error.
func (l *pathLexer) nextCommand() (byte, bool, error) {
	l.skipSeparators()
	if l.pos >= len(l.src) {
		return 0, false, nil
	}
	ch := l.src[l.pos]
	if (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z') {
		l.pos++
		return ch, true, nil
	}
	return 0, false, fmt.Errorf("expected path command at offset %d, found %q", l.pos, string(ch))
}

// peekNumber reports whether the next token is a number (i.e. the current
// command's argument group repeats).
func (l *pathLexer) peekNumber() bool {
	l.skipSeparators()
	if l.pos >= len(l.src) {
		return false
	}
	ch := l.src[l.pos]
	return ch == '-' || ch == '+' || ch == '.' || (ch >= '0' && ch <= '9')
}

// numbers consumes exactly n numeric tokens.
func (l *pathLexer) numbers(n int) ([]float64, error) {
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		v, err := l.number()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (l *pathLexer) number() (float64, error) {
	l.skipSeparators()
	startPos := l.pos
	seenDot := false
	seenDigit := false

	if l.pos < len(l.src) && (l.src[l.pos] == '-' || l.src[l.pos] == '+') {
		l.pos++
	}
	for l.pos < len(l.src) {
		ch := l.src[l.pos]
		switch {
		case ch >= '0' && ch <= '9':
			seenDigit = true
			l.pos++
		case ch == '.' && !seenDot:
			seenDot = true
			l.pos++
		case (ch == 'e' || ch == 'E') && seenDigit:
			// Exponent: consume marker and optional sign, digits follow.
			l.pos++
			if l.pos < len(l.src) && (l.src[l.pos] == '-' || l.src[l.pos] == '+') {
				l.pos++
			}
		default:
			goto done
		}
	}
done:
	if !seenDigit {
		return 0, fmt.Errorf("expected number at offset %d", startPos)
	}
	v, err := strconv.ParseFloat(l.src[startPos:l.pos], 64)
	if err != nil {
		return 0, fmt.Errorf("malformed number %q at offset %d", l.src[startPos:l.pos], startPos)
	}
	return v, nil
}

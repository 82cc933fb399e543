package hp48

import "github.com/seagrayinc/hp48-redeye/pkg/redeye"

// Level tables for every ASCII character the counter protocol uses,
// transcribed from captures of the calculator's transmissions. Each
// table holds 12 bursts; tables starting with a burst have 24 levels,
// tables opening dark carry a leading Low2 and have 25. The four
// error bits the calculator computes are embedded in the tables and
// treated as opaque.
const (
	hi = redeye.High
	l1 = redeye.Low1
	l2 = redeye.Low2
	l3 = redeye.Low3
	l4 = redeye.Low4
)

var frameESC = redeye.Frame{
	l2, hi, l1, hi, l4, hi, l1, hi, l4, hi, l3, hi,
	l3, hi, l1, hi, l3, hi, l4, hi, l1, hi, l3, hi, l3,
}

var frameDot = redeye.Frame{
	l2, hi, l1, hi, l4, hi, l1, hi, l3, hi, l3, hi,
	l3, hi, l3, hi, l3, hi, l4, hi, l3, hi, l1, hi, l3,
}

var frameY = redeye.Frame{
	hi, l3, hi, l3, hi, l4, hi, l3, hi, l1, hi, l4,
	hi, l1, hi, l3, hi, l4, hi, l3, hi, l1, hi, l3,
}

var frameP = redeye.Frame{
	l2, hi, l1, hi, l4, hi, l3, hi, l3, hi, l1, hi,
	l4, hi, l1, hi, l4, hi, l3, hi, l3, hi, l3, hi, l1,
}

var frame3 = redeye.Frame{
	l2, hi, l3, hi, l3, hi, l3, hi, l3, hi, l3, hi,
	l1, hi, l3, hi, l4, hi, l3, hi, l1, hi, l3, hi, l3,
}

var frameM = redeye.Frame{
	l2, hi, l3, hi, l1, hi, l4, hi, l3, hi, l1, hi,
	l4, hi, l3, hi, l1, hi, l3, hi, l4, hi, l1, hi, l3,
}

var frameI = redeye.Frame{
	l2, hi, l1, hi, l4, hi, l3, hi, l3, hi, l1, hi,
	l4, hi, l3, hi, l1, hi, l4, hi, l3, hi, l1, hi, l3,
}

var frameO = redeye.Frame{
	l2, hi, l1, hi, l4, hi, l3, hi, l3, hi, l1, hi,
	l4, hi, l3, hi, l1, hi, l3, hi, l3, hi, l3, hi, l3,
}

var frameF = redeye.Frame{
	hi, l3, hi, l4, hi, l1, hi, l4, hi, l1, hi, l4,
	hi, l3, hi, l3, hi, l1, hi, l3, hi, l4, hi, l1,
}

var frameFF = redeye.Frame{
	hi, l3, hi, l3, hi, l3, hi, l4, hi, l3, hi, l3,
	hi, l3, hi, l1, hi, l3, hi, l4, hi, l3, hi, l1,
}

var frameEOT = redeye.Frame{
	l2, hi, l1, hi, l3, hi, l4, hi, l3, hi, l3, hi,
	l3, hi, l3, hi, l3, hi, l1, hi, l4, hi, l3, hi, l1,
}

var frameC = redeye.Frame{
	hi, l4, hi, l3, hi, l3, hi, l3, hi, l1, hi, l4,
	hi, l3, hi, l3, hi, l3, hi, l1, hi, l3, hi, l3,
}

var frameN = redeye.Frame{
	l2, hi, l1, hi, l4, hi, l3, hi, l3, hi, l1, hi,
	l4, hi, l3, hi, l1, hi, l3, hi, l3, hi, l4, hi, l1,
}

var frameG = redeye.Frame{
	hi, l3, hi, l3, hi, l4, hi, l3, hi, l1, hi, l4,
	hi, l3, hi, l3, hi, l1, hi, l3, hi, l3, hi, l3,
}

var frameDEL = redeye.Frame{
	l2, hi, l3, hi, l3, hi, l1, hi, l4, hi, l1, hi,
	l3, hi, l3, hi, l3, hi, l3, hi, l3, hi, l3, hi, l3,
}

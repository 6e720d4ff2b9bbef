package trivia

import "time"

// timeNow is a thin indirection point so tests could substitute a clock if
// ever needed; production always uses wall-clock time, per §5's model
// (timers are real wall-clock one-shots, not a virtual clock).
var timeNow = time.Now

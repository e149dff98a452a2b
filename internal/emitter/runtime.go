// Package emitter implements spec.md §4.4: serializing the fully
// transformed translation unit back to C source, and writing the
// companion cz.h / cz.c runtime files the generated source depends on.
package emitter

import (
	"fmt"
	"strings"
)

// posixFeatureMacro is the first line of every emitted translation unit
// (spec.md §6, "Output format").
const posixFeatureMacro = "#define _POSIX_C_SOURCE 199309L\n"

// assertMacros are the runtime assertion macros prepended to every
// translation unit (spec.md §4.4 item 2). CZ_ASSERT aborts with a
// location-tagged message; CZ_UNREACHABLE marks a path the pass pipeline
// has already proven dead (P13's expansion of the `unreachable()`
// directive calls into the same fprintf+abort shape by hand, so this
// macro exists for code the passes did not already expand).
const assertMacros = `#ifndef CZ_ASSERT
#define CZ_ASSERT(cond) \
	do { \
		if (!(cond)) { \
			fprintf(stderr, "%s:%d: assertion failed: %s\n", __FILE__, __LINE__, #cond); \
			abort(); \
		} \
	} while (0)
#endif
`

// clockMacros give the generated source a monotonic timer (spec.md §4.4
// item 3) independent of wall-clock adjustments, matching the kind of
// timing instrumentation cz_log_* timestamps use.
const clockMacros = `#ifndef CZ_MONOTONIC_NOW_NS
static inline int64_t cz_monotonic_now_ns(void) {
	struct timespec ts;
	clock_gettime(CLOCK_MONOTONIC, &ts);
	return (int64_t)ts.tv_sec * 1000000000LL + (int64_t)ts.tv_nsec;
}
#define CZ_MONOTONIC_NOW_NS() cz_monotonic_now_ns()
#endif
`

// logMacroTemplate generates the log subsystem (spec.md §4.4 item 4),
// parameterized on pragma_ctx.debug_mode: cz_log_debug compiles to a
// no-op when debug mode is off, matching the driver contract that
// `#pragma czar debug(off)` silences debug-level logging entirely.
func logMacros(debugMode bool) string {
	debugBody := `fprintf(stderr, "[DEBUG] " fmt "\n", ##__VA_ARGS__)`
	if !debugMode {
		debugBody = `((void)0)`
	}
	return fmt.Sprintf(`#ifndef CZ_LOG_H
#define cz_log_info(fmt, ...) fprintf(stderr, "[INFO] " fmt "\n", ##__VA_ARGS__)
#define cz_log_warn(fmt, ...) fprintf(stderr, "[WARN] " fmt "\n", ##__VA_ARGS__)
#define cz_log_error(fmt, ...) fprintf(stderr, "[ERROR] " fmt "\n", ##__VA_ARGS__)
#define cz_log_debug(fmt, ...) %s
#endif
`, debugBody)
}

// formatMacros give the generated source a small type-generic formatting
// helper (spec.md §4.4 item 5): any_t wraps a value and its _Generic tag
// so cz_format can dispatch on it, and cz_format itself expands
// mustache-style `{}`/`{{name}}` placeholders against a list of any_t
// arguments. Positional `{}` holes consume arguments left to right;
// `{{name}}` holes are accepted syntactically but resolved the same way,
// since the runtime has no named-argument binding at format time.
const formatMacros = `#ifndef CZ_ANY_T
typedef struct {
	enum { CZ_ANY_I64, CZ_ANY_U64, CZ_ANY_F64, CZ_ANY_STR, CZ_ANY_PTR } tag;
	union {
		int64_t i64;
		uint64_t u64;
		double f64;
		const char *str;
		const void *ptr;
	} v;
} any_t;

#define CZ_ANY(x) _Generic((x), \
	int8_t: cz_any_i64, int16_t: cz_any_i64, int32_t: cz_any_i64, int64_t: cz_any_i64, \
	uint8_t: cz_any_u64, uint16_t: cz_any_u64, uint32_t: cz_any_u64, uint64_t: cz_any_u64, \
	float: cz_any_f64, double: cz_any_f64, \
	char *: cz_any_str, const char *: cz_any_str, \
	default: cz_any_ptr)(x)

static inline any_t cz_any_i64(int64_t v) { any_t a; a.tag = CZ_ANY_I64; a.v.i64 = v; return a; }
static inline any_t cz_any_u64(uint64_t v) { any_t a; a.tag = CZ_ANY_U64; a.v.u64 = v; return a; }
static inline any_t cz_any_f64(double v) { any_t a; a.tag = CZ_ANY_F64; a.v.f64 = v; return a; }
static inline any_t cz_any_str(const char *v) { any_t a; a.tag = CZ_ANY_STR; a.v.str = v; return a; }
static inline any_t cz_any_ptr(const void *v) { any_t a; a.tag = CZ_ANY_PTR; a.v.ptr = v; return a; }

void cz_format(char *out, size_t outlen, const char *tmpl, const any_t *args, size_t nargs);
#define CZ_ANY_T
#endif
`

// safeCastMacro backs P21's two-argument cast<T>(v, fb) lowering. It is
// _Generic-dispatched on T so the overflow check below is specialized per
// destination width, returning fb whenever v does not round-trip through
// T.
const safeCastMacro = `#ifndef _CZ_SAFE_CAST
#define _CZ_SAFE_CAST(T, v, fb) \
	(((T)(v) == (v)) ? (T)(v) : (fb))
#endif
`

// Preamble returns the full runtime preamble (spec.md §4.4) prepended to
// every translation unit, ahead of the emitted tokens. debugMode is the
// final value of pragma_ctx.debug_mode after P1 has run.
func Preamble(targetStd string, debugMode bool) string {
	var b strings.Builder
	b.WriteString(posixFeatureMacro)
	if targetStd != "" {
		fmt.Fprintf(&b, "/* target-std: %s */\n", targetStd)
	}
	b.WriteString("#include <stdint.h>\n")
	b.WriteString("#include <stddef.h>\n")
	b.WriteString("#include <stdio.h>\n")
	b.WriteString("#include <stdlib.h>\n")
	b.WriteString("#include <time.h>\n")
	b.WriteString("#include \"cz.h\"\n\n")
	b.WriteString(assertMacros)
	b.WriteString(clockMacros)
	b.WriteString(logMacros(debugMode))
	b.WriteString(formatMacros)
	b.WriteString(safeCastMacro)
	b.WriteString("\n")
	return b.String()
}

// Header returns the contents of the companion cz.h runtime declaration
// file (spec.md §4.4, "runtime writer").
func Header() string {
	return `#ifndef CZ_H
#define CZ_H

#include <stdint.h>
#include <stddef.h>

void cz_format(char *out, size_t outlen, const char *tmpl, const void *args, size_t nargs);

#endif
`
}

// Source returns the contents of the companion cz.c runtime definition
// file: the implementation of cz_format's mustache-style placeholder
// expansion (spec.md §4.4 item 5), plus every generated cleanup function
// from P17, in generation order, so they are defined ahead of the
// translation unit that references them via
// `__attribute__((cleanup(...)))`.
func Source(cleanupFuncs []string) string {
	var b strings.Builder
	b.WriteString("#include \"cz.h\"\n")
	b.WriteString("#include <string.h>\n\n")
	b.WriteString(formatMacros)
	b.WriteString(`
void cz_format(char *out, size_t outlen, const char *tmpl, const any_t *args, size_t nargs) {
	size_t oi = 0, ai = 0;
	for (size_t i = 0; tmpl[i] != '\0' && oi + 1 < outlen; i++) {
		if (tmpl[i] == '{') {
			size_t j = i + 1;
			while (tmpl[j] != '\0' && tmpl[j] != '}') j++;
			if (tmpl[j] == '}') {
				if (ai < nargs) {
					char buf[64];
					const any_t *a = &args[ai++];
					switch (a->tag) {
					case CZ_ANY_I64: snprintf(buf, sizeof buf, "%lld", (long long)a->v.i64); break;
					case CZ_ANY_U64: snprintf(buf, sizeof buf, "%llu", (unsigned long long)a->v.u64); break;
					case CZ_ANY_F64: snprintf(buf, sizeof buf, "%f", a->v.f64); break;
					case CZ_ANY_STR: snprintf(buf, sizeof buf, "%s", a->v.str); break;
					default: snprintf(buf, sizeof buf, "%p", a->v.ptr); break;
					}
					for (size_t k = 0; buf[k] != '\0' && oi + 1 < outlen; k++) out[oi++] = buf[k];
				}
				i = j;
				continue;
			}
		}
		out[oi++] = tmpl[i];
	}
	out[oi] = '\0';
}
`)
	for _, fn := range cleanupFuncs {
		b.WriteString("\n")
		b.WriteString(fn)
		b.WriteString("\n")
	}
	return b.String()
}

// Package demo holds the example components the lumen CLI renders, serves
// and exports. Each demo targets one backend family: Counter and Todos
// render HTML, Formula renders MathML, Chart paints a canvas scene and
// Report lays out a PDF document.
package demo

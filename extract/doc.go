// Package extract turns DOCX paragraphs into styled runs and extracted
// image files.
//
// [Runs] resolves each run's effective formatting. Color follows a fixed
// priority, implemented by [ResolveColor]:
//
//  1. the run's explicit color
//  2. the color of the run's character style
//  3. the color of the paragraph's style
//  4. black
//
// [Images] resolves a paragraph's embedded pictures through the package
// relationships and writes each one to an [ImageStore].
package extract

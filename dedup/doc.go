// Package dedup removes duplicate reads from FASTQ files.
//
// Reads (or read pairs) with identical sequences are duplicates. Of every
// set of duplicates, the copy with the highest quality score survives; when
// scores tie, the first copy in the file survives. Quality is the sum of the
// quality characters, each minus a zero point (33 for Phred+33).
//
// Deduplication takes two passes over the input. The first pass hashes each
// sequence (for pairs, both sequences) into a 128-bit fingerprint and keeps,
// for every fingerprint, the file offset(s) and score of the best copy seen
// so far. Only the table of survivors is kept in memory. The second pass
// seeks to each survivor's offset, reads the record again and writes it out.
// Output order is unspecified.
//
// Gzip-compressed input is supported. Since gzip files cannot be seeked
// directly, survivors are replayed in order of increasing offset so that the
// second pass decompresses each file only once.
package dedup

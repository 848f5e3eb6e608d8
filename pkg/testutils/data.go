package testutils

// TestNovel is a short corpus in the layout the dataset builder expects.
const TestNovel = `Harry Potter and the Philosopher's Stone
J. K. Rowling

CHAPTER ONE

THE BOY WHO LIVED

Mr. and Mrs. Dursley, of number four, Privet Drive, were proud to say
that they were perfectly normal, thank you very much.

It was on the corner of the street that he noticed the first sign of
something peculiar.

Dumbledore turned and walked back down the street. Hagrid sniffed.

CHAPTER TWO

THE VANISHING GLASS

Nearly ten years had passed since the Dursleys had woken up to find
their nephew on the front step.

Harry was used to spiders, because the cupboard under the stairs was
full of them.
`

// TestNovelNames labels the entities found in TestNovel.
var TestNovelNames = map[string]string{
	"Dursley":      "PERSON",
	"Privet Drive": "LOC",
	"Dumbledore":   "PERSON",
	"Hagrid":       "PERSON",
	"Harry":        "PERSON",
}

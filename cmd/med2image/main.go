package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/JacksonKontny/med2image/pkg/config"
	"github.com/JacksonKontny/med2image/pkg/conversion"
	"github.com/JacksonKontny/med2image/pkg/decode"
	"github.com/JacksonKontny/med2image/pkg/selection"
)

// exitInputFileFail is the reserved exit code for inputs no handler can
// decode.
const exitInputFileFail = 10

func synopsis(shortOnly bool) string {
	scriptName := filepath.Base(os.Args[0])
	short := fmt.Sprintf(`
    SYNOPSIS

            %s                                     \
                    -i|--inputFile <inputFile>             \
                    -o|--outputFileStem <outputFileStem>   \
                    [-d|--outputDir <outputDir>]           \
                    [-t|--outputFileType <outputFileType>] \
                    [-s|--sliceToConvert <sliceToConvert>] \
                    [-f|--frameToConvert <frameToConvert>] \
                    [--showSlices]                         \
                    [--printElapsedTime]                   \
                    [--config <configFile>]                \
                    [--verbose]                            \
                    [--man|--synopsis]
`, scriptName)

	if shortOnly {
		return short
	}

	description := fmt.Sprintf(`
    DESCRIPTION

        '%s' converts input medical image formatted data to a more
        display friendly format.

        Currently understands NIfTI (.nii, .nii.gz) and DICOM.

    ARGS

        -i|--inputFile <inputFile>
        Input file to convert. Typically a DICOM file or a NIfTI volume.

        -o|--outputFileStem <outputFileStem>
        The output file stem to store conversion. If this is specified
        with an extension, this extension will be used to specify the
        output file type.

        [-d|--outputDir <outputDir>]
        The directory to contain the converted output image files.

        [-t|--outputFileType <outputFileType>]
        The output file type: png, jpg, jpeg, tif, or tiff. If different
        to <outputFileStem> extension, will override extension in favour
        of <outputFileType>.

        [-s|--sliceToConvert <sliceToConvert>]
        In the case of volume files, the slice (z) index to convert.
        If a '-1' is sent, convert *all* slices. If 'm' is sent, convert
        only the middle slice.

        [-f|--frameToConvert <frameToConvert>]
        In the case of 4D volume files, the frame (time/series) index to
        convert. Ignored for 3D input data. If a '-1' is sent, convert
        *all* frames. If 'm' is sent, convert only the middle frame.

        [--showSlices]
        If specified, show converted slices as they are created.

        [--printElapsedTime]
        Print program run time.

        [--config <configFile>]
        YAML configuration file for colormap, JPEG quality, and worker
        count defaults.

        [--verbose]
        Enable debug logging.

        [--man|--synopsis]
        Show either full help or short synopsis.
`, scriptName)

	return short + description
}

func main() {
	var (
		inputFile        string
		outputFileStem   string
		outputDir        string
		outputFileType   string
		sliceToConvert   string
		frameToConvert   string
		configFile       string
		showSlices       bool
		printElapsedTime bool
		verbose          bool
		showMan          bool
		showSynopsis     bool
	)

	flag.StringVar(&inputFile, "i", "", "input file")
	flag.StringVar(&inputFile, "inputFile", "", "input file")
	flag.StringVar(&outputFileStem, "o", "", "output file stem")
	flag.StringVar(&outputFileStem, "outputFileStem", "", "output file stem")
	flag.StringVar(&outputDir, "d", "./", "output image directory")
	flag.StringVar(&outputDir, "outputDir", "./", "output image directory")
	flag.StringVar(&outputFileType, "t", "", "output image type")
	flag.StringVar(&outputFileType, "outputFileType", "", "output image type")
	flag.StringVar(&sliceToConvert, "s", "-1", "slice to convert (for 3D data)")
	flag.StringVar(&sliceToConvert, "sliceToConvert", "-1", "slice to convert (for 3D data)")
	flag.StringVar(&frameToConvert, "f", "-1", "frame to convert (for 4D data)")
	flag.StringVar(&frameToConvert, "frameToConvert", "-1", "frame to convert (for 4D data)")
	flag.StringVar(&configFile, "config", "med2image.yaml", "YAML configuration file")
	flag.BoolVar(&showSlices, "showSlices", false, "show slices that are converted")
	flag.BoolVar(&printElapsedTime, "printElapsedTime", false, "print program run time")
	flag.BoolVar(&verbose, "verbose", false, "enable debug logging")
	flag.BoolVar(&showMan, "man", false, "show full help")
	flag.BoolVar(&showSynopsis, "synopsis", false, "show short synopsis")
	flag.Parse()

	if showMan || showSynopsis {
		fmt.Print(synopsis(!showMan))
		os.Exit(1)
	}

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if inputFile == "" || outputFileStem == "" {
		fmt.Print(synopsis(true))
		log.Error("both --inputFile and --outputFileStem are required")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if verbose || cfg.Output.Verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	sliceSel, err := selection.ParseSelector(sliceToConvert)
	if err != nil {
		log.Fatalf("Bad --sliceToConvert: %v", err)
	}
	frameSel, err := selection.ParseSelector(frameToConvert)
	if err != nil {
		log.Fatalf("Bad --frameToConvert: %v", err)
	}

	params := &conversion.Params{
		InputFile:      inputFile,
		OutputDir:      outputDir,
		OutputFileStem: outputFileStem,
		OutputFileType: outputFileType,
		FrameSelector:  frameSel,
		SliceSelector:  sliceSel,
		ShowSlices:     showSlices,
		Colormap:       cfg.Conversion.Colormap,
		JPEGQuality:    cfg.Conversion.JPEGQuality,
		Cores:          cfg.Conversion.Cores,
	}

	converter := conversion.NewConverter(params, log)

	startTime := time.Now()
	if err := converter.Run(); err != nil {
		log.Error(err)
		if errors.Is(err, decode.ErrInputFileFail) {
			os.Exit(exitInputFileFail)
		}
		os.Exit(1)
	}
	elapsed := time.Since(startTime)

	log.WithField("files", converter.JobsDone()).Info("conversion complete")
	if printElapsedTime {
		fmt.Printf("Elapsed time = %f seconds\n", elapsed.Seconds())
	}
}

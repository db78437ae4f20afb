package workers

import (
	"log"
	"sync"

	"github.com/disintegration/imaging"

	"github.com/chifamba/dzinza-sub003/media"
	"github.com/chifamba/dzinza-sub003/realtime"
	"github.com/chifamba/dzinza-sub003/repository"
	"github.com/chifamba/dzinza-sub003/utils"
)

// PhotoJob asks a worker to process one freshly uploaded person photo: build
// the thumbnail, read EXIF and update the person row.
type PhotoJob struct {
	PersonID      uint
	TreeID        uint
	PhotoRelPath  string // relative path inside the media store
	PhotoFullPath string // absolute filesystem path of the stored original
}

// PhotoProcessor is a fixed-size worker pool for photo post-processing.
type PhotoProcessor struct {
	JobQueue   chan PhotoJob
	personRepo repository.PersonRepositoryInterface
	processor  *media.Processor
	hub        *realtime.Hub
	maxSize    int
	Wg         sync.WaitGroup
	StopChan   chan struct{}
}

// NewPhotoProcessor starts numWorkers goroutines consuming the job queue.
func NewPhotoProcessor(
	personRepo repository.PersonRepositoryInterface,
	processor *media.Processor,
	hub *realtime.Hub,
	thumbnailMaxSize, queueSize, numWorkers int,
) *PhotoProcessor {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	if queueSize <= 0 {
		queueSize = 100
	}

	pp := &PhotoProcessor{
		JobQueue:   make(chan PhotoJob, queueSize),
		personRepo: personRepo,
		processor:  processor,
		hub:        hub,
		maxSize:    thumbnailMaxSize,
		StopChan:   make(chan struct{}),
	}

	pp.Wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go pp.worker(i)
	}
	log.Printf("started %d photo worker(s) with queue size %d", numWorkers, queueSize)
	return pp
}

// Enqueue submits a job, dropping it if the queue is full.
func (pp *PhotoProcessor) Enqueue(job PhotoJob) bool {
	select {
	case pp.JobQueue <- job:
		return true
	default:
		log.Printf("photo worker: queue full, dropping job for person %d", job.PersonID)
		return false
	}
}

// Stop closes the queue and waits for in-flight jobs to finish.
func (pp *PhotoProcessor) Stop() {
	close(pp.StopChan)
	close(pp.JobQueue)
	pp.Wg.Wait()
}

func (pp *PhotoProcessor) worker(id int) {
	defer pp.Wg.Done()
	log.Printf("photo worker %d started", id)
	for {
		select {
		case job, ok := <-pp.JobQueue:
			if !ok {
				log.Printf("photo worker %d stopping: queue closed", id)
				return
			}
			pp.process(job)
		case <-pp.StopChan:
			log.Printf("photo worker %d stopping: stop signal", id)
			return
		}
	}
}

func (pp *PhotoProcessor) process(job PhotoJob) {
	img, err := imaging.Open(job.PhotoFullPath)
	if err != nil {
		log.Printf("photo worker: failed to open %s: %v", job.PhotoFullPath, err)
		pp.broadcast(job, "failed", err.Error())
		return
	}

	thumbRelPath, err := pp.processor.GenerateThumbnail(img, job.PhotoRelPath, pp.maxSize)
	if err != nil {
		log.Printf("photo worker: thumbnail generation failed for person %d: %v", job.PersonID, err)
		pp.broadcast(job, "failed", err.Error())
		return
	}

	var takenAt *int64
	if meta, err := utils.GetPhotoMetadata(job.PhotoFullPath); err == nil && meta != nil {
		takenAt = meta.TakenAt
	}

	if err := pp.personRepo.UpdatePhoto(job.PersonID, &job.PhotoRelPath, &thumbRelPath, takenAt); err != nil {
		log.Printf("photo worker: failed to update person %d: %v", job.PersonID, err)
		pp.broadcast(job, "failed", err.Error())
		return
	}

	pp.broadcast(job, "done", "")
}

func (pp *PhotoProcessor) broadcast(job PhotoJob, status, errMsg string) {
	pp.hub.Broadcast(realtime.Event{
		Type:   "task_update",
		TreeID: job.TreeID,
		Task:   realtime.TaskPersonPhoto,
		Status: status,
		Error:  errMsg,
		Extra:  map[string]interface{}{"person_id": job.PersonID},
	})
}
